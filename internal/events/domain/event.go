// Package domain defines the core event domain entities and types. Events
// carry only sanitized payloads: the sanitizer runs before persistence, so a
// stored payload never contains forbidden keys or detected sensitive content.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the processing status of an event
type EventStatus string

const (
	EventStatusPending   EventStatus = "pending"
	EventStatusProcessed EventStatus = "processed"
	EventStatusFailed    EventStatus = "failed"
)

// Event represents a sanitized analytics or integration event owned by a
// tenant, processed through the transactional outbox pattern.
type Event struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	// EventType names the event schema, e.g. "appointment.scheduled".
	EventType string
	// Payload is the sanitized payload serialized as JSON.
	Payload     string
	Status      EventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
