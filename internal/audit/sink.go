// Package audit delivers guard decisions to an append-only sink. The service
// produces records; the sink (log pipeline or database table) owns storage
// and retention.
package audit

import (
	"context"
	"log/slog"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
)

// Sink receives audit records. Implementations must be safe for concurrent
// use; Emit failures are reported to the caller but must never block or fail
// the guarded operation retroactively (the guard decision already happened).
type Sink interface {
	Emit(ctx context.Context, record *auditDomain.Record) error
}

// logSink writes audit records as structured log lines.
type logSink struct {
	logger *slog.Logger
}

// NewLogSink creates a Sink that emits records through the given logger.
func NewLogSink(logger *slog.Logger) Sink {
	return &logSink{logger: logger}
}

// Emit writes one structured line per guard decision.
func (l *logSink) Emit(_ context.Context, record *auditDomain.Record) error {
	l.logger.Info("guard decision",
		slog.String("audit_id", record.ID.String()),
		slog.String("entity_type", record.EntityType),
		slog.String("entity_id", record.EntityID.String()),
		slog.Any("fields", record.Fields),
		slog.String("operation", record.Operation),
		slog.String("decision", string(record.Decision)),
		slog.String("reason", record.Reason),
		slog.String("actor_id", record.ActorID.String()),
		slog.String("actor_role", record.ActorRole),
		slog.String("tenant_id", record.TenantID.String()),
		slog.Time("created_at", record.CreatedAt),
	)
	return nil
}
