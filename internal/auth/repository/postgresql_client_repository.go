// Package repository implements API client persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	authDomain "github.com/allisson/phiguard/internal/auth/domain"
	"github.com/allisson/phiguard/internal/database"
	apperrors "github.com/allisson/phiguard/internal/errors"
)

// PostgreSQLClientRepository implements client persistence for PostgreSQL databases.
type PostgreSQLClientRepository struct {
	db *sql.DB
}

// Create inserts a new client into the PostgreSQL database.
func (p *PostgreSQLClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO clients (id, tenant_id, name, hashed_secret, role, active, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		client.ID,
		client.TenantID,
		client.Name,
		client.HashedSecret,
		client.Role,
		client.Active,
		client.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create client")
	}
	return nil
}

// Get retrieves a client by its ID.
func (p *PostgreSQLClientRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*authDomain.Client, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, tenant_id, name, hashed_secret, role, active, created_at
			  FROM clients WHERE id = $1`

	var client authDomain.Client
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&client.ID,
		&client.TenantID,
		&client.Name,
		&client.HashedSecret,
		&client.Role,
		&client.Active,
		&client.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get client")
	}

	return &client, nil
}

// List retrieves clients ordered by creation time with pagination.
func (p *PostgreSQLClientRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.Client, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, tenant_id, name, hashed_secret, role, active, created_at
			  FROM clients ORDER BY created_at LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list clients")
	}
	defer func() { _ = rows.Close() }()

	var clients []*authDomain.Client
	for rows.Next() {
		var client authDomain.Client
		err := rows.Scan(
			&client.ID,
			&client.TenantID,
			&client.Name,
			&client.HashedSecret,
			&client.Role,
			&client.Active,
			&client.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan client")
		}
		clients = append(clients, &client)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate clients")
	}

	return clients, nil
}

// NewPostgreSQLClientRepository creates a new PostgreSQL client repository instance.
func NewPostgreSQLClientRepository(db *sql.DB) *PostgreSQLClientRepository {
	return &PostgreSQLClientRepository{db: db}
}
