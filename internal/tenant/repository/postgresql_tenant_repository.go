// Package repository implements tenant persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/phiguard/internal/database"
	apperrors "github.com/allisson/phiguard/internal/errors"
	tenantDomain "github.com/allisson/phiguard/internal/tenant/domain"
)

// PostgreSQLTenantRepository implements tenant persistence for PostgreSQL databases.
type PostgreSQLTenantRepository struct {
	db *sql.DB
}

// Create inserts a new tenant into the PostgreSQL database.
func (p *PostgreSQLTenantRepository) Create(ctx context.Context, tenant *tenantDomain.Tenant) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tenants (id, name, active, created_at) VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(ctx, query, tenant.ID, tenant.Name, tenant.Active, tenant.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create tenant")
	}
	return nil
}

// Get retrieves a tenant by its ID.
func (p *PostgreSQLTenantRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*tenantDomain.Tenant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, active, created_at FROM tenants WHERE id = $1`

	var tenant tenantDomain.Tenant
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Active,
		&tenant.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get tenant")
	}

	return &tenant, nil
}

// List retrieves tenants ordered by creation time with pagination.
func (p *PostgreSQLTenantRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*tenantDomain.Tenant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, active, created_at FROM tenants ORDER BY created_at LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tenants")
	}
	defer func() { _ = rows.Close() }()

	var tenants []*tenantDomain.Tenant
	for rows.Next() {
		var tenant tenantDomain.Tenant
		if err := rows.Scan(&tenant.ID, &tenant.Name, &tenant.Active, &tenant.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan tenant")
		}
		tenants = append(tenants, &tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate tenants")
	}

	return tenants, nil
}

// NewPostgreSQLTenantRepository creates a new PostgreSQL tenant repository instance.
func NewPostgreSQLTenantRepository(db *sql.DB) *PostgreSQLTenantRepository {
	return &PostgreSQLTenantRepository{db: db}
}
