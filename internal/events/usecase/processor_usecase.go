package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/phiguard/internal/database"
	eventsDomain "github.com/allisson/phiguard/internal/events/domain"
	"github.com/allisson/phiguard/internal/tenant/scope"
)

// processorScopeReason is the audited justification for the cross-tenant
// drain of the pending-event queue.
const processorScopeReason = "background event processor over all tenants"

// processorUseCase implements ProcessorUseCase: a ticker loop that drains
// pending events in batches inside a transaction, with retry accounting.
type processorUseCase struct {
	config         Config
	txManager      database.TxManager
	eventRepo      EventRepository
	eventProcessor EventProcessor
	logger         *slog.Logger
}

// Start starts the event processing loop.
func (u *processorUseCase) Start(ctx context.Context) error {
	u.logger.Info("starting event processor",
		slog.Duration("interval", u.config.Interval),
		slog.Int("batch_size", u.config.BatchSize),
	)

	ticker := time.NewTicker(u.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			u.logger.Info("stopping event processor")
			return ctx.Err()
		case <-ticker.C:
			if err := u.ProcessEvents(ctx); err != nil {
				u.logger.Error("failed to process events", slog.Any("error", err))
			}
		}
	}
}

// ProcessEvents retrieves and processes pending events in a transaction.
func (u *processorUseCase) ProcessEvents(ctx context.Context) error {
	sc := scope.Unscoped(processorScopeReason)

	return u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		events, err := u.eventRepo.GetPendingEvents(txCtx, sc, u.config.BatchSize)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}

		u.logger.Info("processing events", slog.Int("count", len(events)))

		for _, event := range events {
			if err := u.processEvent(txCtx, sc, event); err != nil {
				return err
			}
		}

		return nil
	})
}

// processEvent runs one event through the processor and updates its status.
// A processing failure is recorded on the event, not propagated, so one bad
// event does not wedge the batch.
func (u *processorUseCase) processEvent(
	ctx context.Context,
	sc scope.Scope,
	event *eventsDomain.Event,
) error {
	if err := u.eventProcessor.Process(ctx, event); err != nil {
		u.logger.Error("failed to process event",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.EventType),
			slog.Any("error", err),
		)

		event.Retries++
		errorMsg := err.Error()
		event.LastError = &errorMsg
		if event.Retries >= u.config.MaxRetries {
			event.Status = eventsDomain.EventStatusFailed
		}

		return u.eventRepo.Update(ctx, sc, event)
	}

	now := time.Now().UTC()
	event.Status = eventsDomain.EventStatusProcessed
	event.ProcessedAt = &now

	return u.eventRepo.Update(ctx, sc, event)
}

// NewProcessorUseCase creates a new event processor use case instance.
func NewProcessorUseCase(
	config Config,
	txManager database.TxManager,
	eventRepo EventRepository,
	eventProcessor EventProcessor,
	logger *slog.Logger,
) ProcessorUseCase {
	return &processorUseCase{
		config:         config,
		txManager:      txManager,
		eventRepo:      eventRepo,
		eventProcessor: eventProcessor,
		logger:         logger,
	}
}
