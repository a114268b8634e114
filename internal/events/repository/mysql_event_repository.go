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

// MySQLEventRepository implements event persistence for MySQL databases.
type MySQLEventRepository struct {
	db *sql.DB
}

const mysqlEventColumns = `id, tenant_id, event_type, payload, status, retries, last_error,
			  processed_at, created_at, updated_at`

// Create inserts a new event stamped with its tenant identity.
func (m *MySQLEventRepository) Create(
	ctx context.Context,
	sc scope.Scope,
	event *eventsDomain.Event,
) error {
	querier := database.GetTx(ctx, m.db)

	if !sc.Bypassed() && event.TenantID != sc.TenantID() {
		return apperrors.ErrNotFound
	}

	query := `INSERT INTO events
			  (id, tenant_id, event_type, payload, status, retries, last_error,
			   processed_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

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
func (m *MySQLEventRepository) Get(
	ctx context.Context,
	sc scope.Scope,
	id uuid.UUID,
) (*eventsDomain.Event, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlEventColumns + ` FROM events WHERE id = ?`
	args := []any{id}
	if !sc.Bypassed() {
		query += ` AND tenant_id = ?`
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
func (m *MySQLEventRepository) List(
	ctx context.Context,
	sc scope.Scope,
	offset, limit int,
) ([]*eventsDomain.Event, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlEventColumns + ` FROM events`
	args := []any{}
	if !sc.Bypassed() {
		query += ` WHERE tenant_id = ?`
		args = append(args, sc.TenantID())
	}
	query += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	return m.queryEvents(ctx, querier, query, args...)
}

// GetPendingEvents retrieves pending events with limit, locking them for the
// duration of the processing transaction.
func (m *MySQLEventRepository) GetPendingEvents(
	ctx context.Context,
	sc scope.Scope,
	limit int,
) ([]*eventsDomain.Event, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlEventColumns + ` FROM events WHERE status = ?`
	args := []any{eventsDomain.EventStatusPending}
	if !sc.Bypassed() {
		query += ` AND tenant_id = ?`
		args = append(args, sc.TenantID())
	}
	query += ` ORDER BY created_at ASC LIMIT ? FOR UPDATE SKIP LOCKED`
	args = append(args, limit)

	return m.queryEvents(ctx, querier, query, args...)
}

func (m *MySQLEventRepository) queryEvents(
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
func (m *MySQLEventRepository) Update(
	ctx context.Context,
	sc scope.Scope,
	event *eventsDomain.Event,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE events
			  SET status = ?, retries = ?, last_error = ?, processed_at = ?, updated_at = NOW()
			  WHERE id = ?`
	args := []any{event.Status, event.Retries, event.LastError, event.ProcessedAt, event.ID}
	if !sc.Bypassed() {
		query += ` AND tenant_id = ?`
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

// NewMySQLEventRepository creates a new MySQL event repository instance.
func NewMySQLEventRepository(db *sql.DB) *MySQLEventRepository {
	return &MySQLEventRepository{db: db}
}
