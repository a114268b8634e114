package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/phiguard/internal/errors"
	tenantDomain "github.com/allisson/phiguard/internal/tenant/domain"
)

// tenantUseCase implements TenantUseCase.
type tenantUseCase struct {
	tenantRepo TenantRepository
}

// Create creates a new active tenant.
func (t *tenantUseCase) Create(ctx context.Context, name string) (*tenantDomain.Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "tenant name must not be blank")
	}

	tenant := &tenantDomain.Tenant{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      name,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}

	if err := t.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	return tenant, nil
}

// Get retrieves a tenant by its ID.
func (t *tenantUseCase) Get(ctx context.Context, id uuid.UUID) (*tenantDomain.Tenant, error) {
	return t.tenantRepo.Get(ctx, id)
}

// List retrieves tenants ordered by creation with pagination.
func (t *tenantUseCase) List(ctx context.Context, offset, limit int) ([]*tenantDomain.Tenant, error) {
	return t.tenantRepo.List(ctx, offset, limit)
}

// NewTenantUseCase creates a new tenant use case instance.
func NewTenantUseCase(tenantRepo TenantRepository) TenantUseCase {
	return &tenantUseCase{tenantRepo: tenantRepo}
}
