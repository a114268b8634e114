package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	eventsDomain "github.com/allisson/phiguard/internal/events/domain"
	"github.com/allisson/phiguard/internal/metrics"
	"github.com/allisson/phiguard/internal/tenant/scope"
)

// eventUseCaseWithMetrics decorates EventUseCase with metrics instrumentation.
type eventUseCaseWithMetrics struct {
	next    EventUseCase
	metrics metrics.BusinessMetrics
}

// NewEventUseCaseWithMetrics wraps an EventUseCase with metrics recording.
func NewEventUseCaseWithMetrics(useCase EventUseCase, m metrics.BusinessMetrics) EventUseCase {
	return &eventUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Ingest records metrics for event intake operations.
func (e *eventUseCaseWithMetrics) Ingest(
	ctx context.Context,
	sc scope.Scope,
	input IngestEventInput,
) (*eventsDomain.Event, error) {
	start := time.Now()
	event, err := e.next.Ingest(ctx, sc, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "events", "event_ingest", status)
	e.metrics.RecordDuration(ctx, "events", "event_ingest", time.Since(start), status)

	return event, err
}

// Get records metrics for event retrieval operations.
func (e *eventUseCaseWithMetrics) Get(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*eventsDomain.Event, error) {
	start := time.Now()
	event, err := e.next.Get(ctx, sc, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "events", "event_get", status)
	e.metrics.RecordDuration(ctx, "events", "event_get", time.Since(start), status)

	return event, err
}

// List records metrics for event list operations.
func (e *eventUseCaseWithMetrics) List(
	ctx context.Context,
	sc scope.Scope,
	offset, limit int,
) ([]*eventsDomain.Event, error) {
	start := time.Now()
	events, err := e.next.List(ctx, sc, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "events", "event_list", status)
	e.metrics.RecordDuration(ctx, "events", "event_list", time.Since(start), status)

	return events, err
}
