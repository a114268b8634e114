// Package repository implements event persistence for PostgreSQL and MySQL.
// Tenant-facing queries carry the scope predicate; the pending-event drain
// used by the background processor runs under an explicit unscoped scope.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/phiguard/internal/database"
	apperrors "github.com/allisson/phiguard/internal/errors"
	eventsDomain "github.com/allisson/phiguard/internal/events/domain"
	"github.com/allisson/phiguard/internal/tenant/scope"
)

// PostgreSQLEventRepository implements event persistence for PostgreSQL databases.
type PostgreSQLEventRepository struct {
	db *sql.DB
}

const pgEventColumns = `id, tenant_id, event_type, payload, status, retries, last_error,
			  processed_at, created_at, updated_at`

// scanEvent scans one row into an event.
func scanEvent(row interface{ Scan(dest ...any) error }) (*eventsDomain.Event, error) {
	var event eventsDomain.Event
	err := row.Scan(
		&event.ID,
		&event.TenantID,
		&event.EventType,
		&event.Payload,
		&event.Status,
		&event.Retries,
		&event.LastError,
		&event.ProcessedAt,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts a new event stamped with its tenant identity.
func (p *PostgreSQLEventRepository) Create(
	ctx context.Context,
	sc scope.Scope,
	event *eventsDomain.Event,
) error {
	querier := database.GetTx(ctx, p.db)

	if !sc.Bypassed() && event.TenantID != sc.TenantID() {
		return apperrors.ErrNotFound
	}

	query := `INSERT INTO events
			  (id, tenant_id, event_type, payload, status, retries, last_error,
			   processed_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		event.ID,
		event.TenantID,
		event.EventType,
		event.Payload,
		event.Status,
		event.Retries,
		event.LastError,
		event.ProcessedAt,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create event")
	}
	return nil
}

// Get retrieves an event by id under the scope.
func (p *PostgreSQLEventRepository) Get(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*eventsDomain.Event, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgEventColumns + ` FROM events WHERE id = $1`
	args := []any{id}
	if !sc.Bypassed() {
		query += ` AND tenant_id = $2`
		args = append(args, sc.TenantID())
	}

	event, err := scanEvent(querier.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get event")
	}

	return event, nil
}

// List retrieves events ordered by id with pagination.
func (p *PostgreSQLEventRepository) List(
	ctx context.Context,
	sc scope.Scope,
	offset, limit int,
) ([]*eventsDomain.Event, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgEventColumns + ` FROM events`
	args := []any{}
	if !sc.Bypassed() {
		query += ` WHERE tenant_id = $1`
		args = append(args, sc.TenantID())
	}
	switch len(args) {
	case 0:
		query += ` ORDER BY id LIMIT $1 OFFSET $2`
	default:
		query += ` ORDER BY id LIMIT $2 OFFSET $3`
	}
	args = append(args, limit, offset)

	return p.queryEvents(ctx, querier, query, args...)
}

// GetPendingEvents retrieves pending events with limit, locking them for the
// duration of the processing transaction.
func (p *PostgreSQLEventRepository) GetPendingEvents(
	ctx context.Context,
	sc scope.Scope,
	limit int,
) ([]*eventsDomain.Event, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgEventColumns + ` FROM events WHERE status = $1`
	args := []any{eventsDomain.EventStatusPending}
	if !sc.Bypassed() {
		query += ` AND tenant_id = $2`
		args = append(args, sc.TenantID())
	}
	switch len(args) {
	case 1:
		query += ` ORDER BY created_at ASC LIMIT $2 FOR UPDATE SKIP LOCKED`
	default:
		query += ` ORDER BY created_at ASC LIMIT $3 FOR UPDATE SKIP LOCKED`
	}
	args = append(args, limit)

	return p.queryEvents(ctx, querier, query, args...)
}

func (p *PostgreSQLEventRepository) queryEvents(
	ctx context.Context,
	querier database.Querier,
	query string,
	args ...any,
) ([]*eventsDomain.Event, error) {
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list events")
	}
	defer func() { _ = rows.Close() }()

	var events []*eventsDomain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan event")
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate events")
	}

	return events, nil
}

// Update updates an event's processing state.
func (p *PostgreSQLEventRepository) Update(
	ctx context.Context,
	sc scope.Scope,
	event *eventsDomain.Event,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE events
			  SET status = $1, retries = $2, last_error = $3, processed_at = $4, updated_at = NOW()
			  WHERE id = $5`
	args := []any{event.Status, event.Retries, event.LastError, event.ProcessedAt, event.ID}
	if !sc.Bypassed() {
		query += ` AND tenant_id = $6`
		args = append(args, sc.TenantID())
	}

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to update event")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// NewPostgreSQLEventRepository creates a new PostgreSQL event repository instance.
func NewPostgreSQLEventRepository(db *sql.DB) *PostgreSQLEventRepository {
	return &PostgreSQLEventRepository{db: db}
}
