// Package repository implements the database-backed audit sink. The
// audit_logs table is insert-only; no update or delete statements exist in
// this package.
package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	"github.com/allisson/phiguard/internal/database"
	apperrors "github.com/allisson/phiguard/internal/errors"
)

// PostgreSQLAuditRepository appends audit records to PostgreSQL.
type PostgreSQLAuditRepository struct {
	db *sql.DB
}

// Emit inserts one audit record.
func (p *PostgreSQLAuditRepository) Emit(ctx context.Context, record *auditDomain.Record) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO audit_logs
			  (id, entity_type, entity_id, fields, operation, decision, reason,
			   actor_id, actor_role, tenant_id, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.EntityType,
		record.EntityID,
		pq.Array(record.Fields),
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

// NewPostgreSQLAuditRepository creates a new PostgreSQL audit repository instance.
func NewPostgreSQLAuditRepository(db *sql.DB) *PostgreSQLAuditRepository {
	return &PostgreSQLAuditRepository{db: db}
}
