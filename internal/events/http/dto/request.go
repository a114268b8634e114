// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/phiguard/internal/validation"
)

// IngestEventRequest contains the parameters for event intake. Payload is
// accepted as-is and sanitized by the use case before persistence.
type IngestEventRequest struct {
	EventType string         `json:"event_type"`
	Payload   map[string]any `json:"payload"`
}

// Validate checks if the ingest event request is valid.
func (r *IngestEventRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EventType,
			validation.Required.Error("event_type is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("event_type must be between 1 and 255 characters"),
		),
		validation.Field(&r.Payload,
			validation.Required.Error("payload is required"),
		),
	)
}
