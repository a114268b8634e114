// Package service provides event processor implementations.
package service

import (
	"context"
	"log/slog"

	eventsDomain "github.com/allisson/phiguard/internal/events/domain"
)

// logProcessor is the default processor: it emits one structured log line per
// event. Payloads are already sanitized at intake, so logging them is safe.
// Real deliveries (webhooks, message brokers) plug in behind the same
// interface.
type logProcessor struct {
	logger *slog.Logger
}

// Process handles one event.
func (p *logProcessor) Process(_ context.Context, event *eventsDomain.Event) error {
	p.logger.Info("event processed",
		slog.String("event_id", event.ID.String()),
		slog.String("tenant_id", event.TenantID.String()),
		slog.String("event_type", event.EventType),
		slog.String("payload", event.Payload),
	)
	return nil
}

// NewLogProcessor creates an event processor that logs each event.
func NewLogProcessor(logger *slog.Logger) *logProcessor {
	return &logProcessor{logger: logger}
}
