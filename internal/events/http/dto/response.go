package dto

import (
	"encoding/json"
	"time"

	eventsDomain "github.com/allisson/phiguard/internal/events/domain"
)

// EventResponse represents an event in API responses. The payload is the
// sanitized version, which may differ from what the caller submitted.
type EventResponse struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"tenant_id"`
	EventType   string          `json:"event_type"`
	Payload     json.RawMessage `json:"payload"`
	Status      string          `json:"status"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// MapEventToResponse converts a domain event to an API response.
func MapEventToResponse(event *eventsDomain.Event) EventResponse {
	return EventResponse{
		ID:          event.ID.String(),
		TenantID:    event.TenantID.String(),
		EventType:   event.EventType,
		Payload:     json.RawMessage(event.Payload),
		Status:      string(event.Status),
		ProcessedAt: event.ProcessedAt,
		CreatedAt:   event.CreatedAt,
	}
}

// ListEventsResponse represents a paginated list of events in API responses.
type ListEventsResponse struct {
	Data []EventResponse `json:"data"`
}

// MapEventsToListResponse converts a slice of domain events to a list response.
func MapEventsToListResponse(events []*eventsDomain.Event) ListEventsResponse {
	data := make([]EventResponse, 0, len(events))
	for _, event := range events {
		data = append(data, MapEventToResponse(event))
	}

	return ListEventsResponse{
		Data: data,
	}
}
