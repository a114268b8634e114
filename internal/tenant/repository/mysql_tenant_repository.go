package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/phiguard/internal/database"
	apperrors "github.com/allisson/phiguard/internal/errors"
	tenantDomain "github.com/allisson/phiguard/internal/tenant/domain"
)

// MySQLTenantRepository implements tenant persistence for MySQL databases.
type MySQLTenantRepository struct {
	db *sql.DB
}

// Create inserts a new tenant into the MySQL database.
func (m *MySQLTenantRepository) Create(ctx context.Context, tenant *tenantDomain.Tenant) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tenants (id, name, active, created_at) VALUES (?, ?, ?, ?)`

	_, err := querier.ExecContext(ctx, query, tenant.ID, tenant.Name, tenant.Active, tenant.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create tenant")
	}
	return nil
}

// Get retrieves a tenant by its ID.
func (m *MySQLTenantRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*tenantDomain.Tenant, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, active, created_at FROM tenants WHERE id = ?`

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
func (m *MySQLTenantRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*tenantDomain.Tenant, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, active, created_at FROM tenants ORDER BY created_at LIMIT ? OFFSET ?`

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

// NewMySQLTenantRepository creates a new MySQL tenant repository instance.
func NewMySQLTenantRepository(db *sql.DB) *MySQLTenantRepository {
	return &MySQLTenantRepository{db: db}
}
