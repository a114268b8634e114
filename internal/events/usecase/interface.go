// Package usecase implements the event intake and processing business logic.
// Intake sanitizes payloads before anything is written; processing drains
// pending events in the background the way a transactional outbox does.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	eventsDomain "github.com/allisson/phiguard/internal/events/domain"
	"github.com/allisson/phiguard/internal/tenant/scope"
)

// Config holds event processor configuration
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// EventRepository defines event persistence operations. Tenant-facing reads
// take a scope; the background processor drains pending events across all
// tenants under an explicit unscoped scope.
type EventRepository interface {
	Create(ctx context.Context, sc scope.Scope, event *eventsDomain.Event) error
	Get(ctx context.Context, sc scope.Scope, id uuid.UUID) (*eventsDomain.Event, error)
	List(ctx context.Context, sc scope.Scope, offset, limit int) ([]*eventsDomain.Event, error)
	GetPendingEvents(ctx context.Context, sc scope.Scope, limit int) ([]*eventsDomain.Event, error)
	Update(ctx context.Context, sc scope.Scope, event *eventsDomain.Event) error
}

// EventProcessor defines the interface for processing different event types
type EventProcessor interface {
	Process(ctx context.Context, event *eventsDomain.Event) error
}

// IngestEventInput contains the input for event intake. Payload is the raw,
// unsanitized body as decoded from JSON.
type IngestEventInput struct {
	EventType string
	Payload   map[string]any
}

// EventUseCase defines event intake and read operations.
type EventUseCase interface {
	// Ingest sanitizes the payload and persists the event. Forbidden keys are
	// stripped silently; detected sensitive content fails the whole intake.
	Ingest(ctx context.Context, sc scope.Scope, input IngestEventInput) (*eventsDomain.Event, error)
	Get(ctx context.Context, sc scope.Scope, id uuid.UUID) (*eventsDomain.Event, error)
	List(ctx context.Context, sc scope.Scope, offset, limit int) ([]*eventsDomain.Event, error)
}

// ProcessorUseCase defines the background event processing loop.
type ProcessorUseCase interface {
	Start(ctx context.Context) error
	ProcessEvents(ctx context.Context) error
}
