package usecase

import (
	"context"
	"encoding/json"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	eventsDomain "github.com/allisson/phiguard/internal/events/domain"
	apperrors "github.com/allisson/phiguard/internal/errors"
	"github.com/allisson/phiguard/internal/phi/sanitizer"
	tenantDomain "github.com/allisson/phiguard/internal/tenant/domain"
	"github.com/allisson/phiguard/internal/tenant/scope"
	appValidation "github.com/allisson/phiguard/internal/validation"
)

// eventUseCase implements EventUseCase.
type eventUseCase struct {
	eventRepo EventRepository
	sanitizer *sanitizer.Sanitizer
}

func (u *eventUseCase) validateIngestInput(input IngestEventInput) error {
	err := validation.Validate(input.EventType,
		validation.Required.Error("event_type is required"),
		appValidation.NotBlank,
		validation.Length(1, 255).Error("event_type must be between 1 and 255 characters"),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}
	return nil
}

// Ingest sanitizes the payload and persists the event under the caller's
// tenant. A sanitizer content detection aborts the intake before any write.
func (u *eventUseCase) Ingest(
	ctx context.Context,
	sc scope.Scope,
	input IngestEventInput,
) (*eventsDomain.Event, error) {
	if sc.Bypassed() {
		return nil, tenantDomain.ErrMissingTenantIdentity
	}

	if err := u.validateIngestInput(input); err != nil {
		return nil, err
	}

	clean, err := u.sanitizer.Sanitize(input.Payload)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(clean)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to serialize payload")
	}

	now := time.Now().UTC()
	event := &eventsDomain.Event{
		ID:        uuid.Must(uuid.NewV7()),
		TenantID:  sc.TenantID(),
		EventType: input.EventType,
		Payload:   string(payload),
		Status:    eventsDomain.EventStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.eventRepo.Create(ctx, sc, event); err != nil {
		return nil, err
	}

	return event, nil
}

// Get retrieves an event by id under the scope.
func (u *eventUseCase) Get(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*eventsDomain.Event, error) {
	return u.eventRepo.Get(ctx, sc, id)
}

// List retrieves events with pagination under the scope.
func (u *eventUseCase) List(
	ctx context.Context,
	sc scope.Scope,
	offset, limit int,
) ([]*eventsDomain.Event, error) {
	return u.eventRepo.List(ctx, sc, offset, limit)
}

// NewEventUseCase creates a new event use case instance.
func NewEventUseCase(
	eventRepo EventRepository,
	payloadSanitizer *sanitizer.Sanitizer,
) EventUseCase {
	return &eventUseCase{
		eventRepo: eventRepo,
		sanitizer: payloadSanitizer,
	}
}
