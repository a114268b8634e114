package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	"github.com/allisson/phiguard/internal/database"
	apperrors "github.com/allisson/phiguard/internal/errors"
)

// MySQLAuditRepository appends audit records to MySQL. Field names are stored
// as a JSON array since MySQL lacks a native array type.
type MySQLAuditRepository struct {
	db *sql.DB
}

// Emit inserts one audit record.
func (m *MySQLAuditRepository) Emit(ctx context.Context, record *auditDomain.Record) error {
	querier := database.GetTx(ctx, m.db)

	fields, err := json.Marshal(record.Fields)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit fields")
	}

	query := `INSERT INTO audit_logs
			  (id, entity_type, entity_id, fields, operation, decision, reason,
			   actor_id, actor_role, tenant_id, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.EntityType,
		record.EntityID,
		fields,
		record.Operation,
		string(record.Decision),
		record.Reason,
		record.ActorID,
		record.ActorRole,
		record.TenantID,
		record.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to emit audit record")
	}
	return nil
}

// NewMySQLAuditRepository creates a new MySQL audit repository instance.
func NewMySQLAuditRepository(db *sql.DB) *MySQLAuditRepository {
	return &MySQLAuditRepository{db: db}
}
