package usecase

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/phiguard/internal/errors"
	tenantDomain "github.com/allisson/phiguard/internal/tenant/domain"
)

type fakeTenantRepository struct {
	tenants map[uuid.UUID]*tenantDomain.Tenant
}

func newFakeTenantRepository() *fakeTenantRepository {
	return &fakeTenantRepository{tenants: make(map[uuid.UUID]*tenantDomain.Tenant)}
}

func (f *fakeTenantRepository) Create(_ context.Context, tenant *tenantDomain.Tenant) error {
	f.tenants[tenant.ID] = tenant
	return nil
}

func (f *fakeTenantRepository) Get(_ context.Context, id uuid.UUID) (*tenantDomain.Tenant, error) {
	tenant, ok := f.tenants[id]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "tenant not found")
	}
	return tenant, nil
}

func (f *fakeTenantRepository) List(_ context.Context, offset, limit int) ([]*tenantDomain.Tenant, error) {
	all := make([]*tenantDomain.Tenant, 0, len(f.tenants))
	for _, tenant := range f.tenants {
		all = append(all, tenant)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.String() < all[j].ID.String() })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func TestTenantUseCase_Create(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		repo := newFakeTenantRepository()
		uc := NewTenantUseCase(repo)

		tenant, err := uc.Create(context.Background(), "clinica-norte")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, tenant.ID)
		assert.Equal(t, "clinica-norte", tenant.Name)
		assert.True(t, tenant.Active)
		assert.False(t, tenant.CreatedAt.IsZero())
	})

	t.Run("name is trimmed", func(t *testing.T) {
		repo := newFakeTenantRepository()
		uc := NewTenantUseCase(repo)

		tenant, err := uc.Create(context.Background(), "  clinica-sul  ")
		require.NoError(t, err)
		assert.Equal(t, "clinica-sul", tenant.Name)
	})

	t.Run("blank name", func(t *testing.T) {
		repo := newFakeTenantRepository()
		uc := NewTenantUseCase(repo)

		_, err := uc.Create(context.Background(), "   ")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestTenantUseCase_Get(t *testing.T) {
	repo := newFakeTenantRepository()
	uc := NewTenantUseCase(repo)

	created, err := uc.Create(context.Background(), "clinica-norte")
	require.NoError(t, err)

	t.Run("existing tenant", func(t *testing.T) {
		tenant, err := uc.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, tenant.ID)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		_, err := uc.Get(context.Background(), uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestTenantUseCase_List(t *testing.T) {
	repo := newFakeTenantRepository()
	uc := NewTenantUseCase(repo)

	for _, name := range []string{"a", "b", "c"} {
		_, err := uc.Create(context.Background(), name)
		require.NoError(t, err)
	}

	tenants, err := uc.List(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.Len(t, tenants, 2)

	tenants, err = uc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, tenants, 1)
}

func TestEnsureImmutableIdentity(t *testing.T) {
	current := uuid.Must(uuid.NewV7())

	assert.NoError(t, tenantDomain.EnsureImmutableIdentity(current, uuid.Nil))
	assert.NoError(t, tenantDomain.EnsureImmutableIdentity(current, current))
	assert.ErrorIs(
		t,
		tenantDomain.EnsureImmutableIdentity(current, uuid.Must(uuid.NewV7())),
		apperrors.ErrForbidden,
	)
}
