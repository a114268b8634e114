// Package usecase implements tenant management orchestration.
package usecase

import (
	"context"

	"github.com/google/uuid"

	tenantDomain "github.com/allisson/phiguard/internal/tenant/domain"
)

// TenantRepository defines persistence operations for tenants. Tenants are
// the scoping boundary themselves and are therefore not tenant-scoped.
type TenantRepository interface {
	Create(ctx context.Context, tenant *tenantDomain.Tenant) error
	Get(ctx context.Context, id uuid.UUID) (*tenantDomain.Tenant, error)
	List(ctx context.Context, offset, limit int) ([]*tenantDomain.Tenant, error)
}

// TenantUseCase defines tenant management operations.
type TenantUseCase interface {
	Create(ctx context.Context, name string) (*tenantDomain.Tenant, error)
	Get(ctx context.Context, id uuid.UUID) (*tenantDomain.Tenant, error)
	List(ctx context.Context, offset, limit int) ([]*tenantDomain.Tenant, error)
}
