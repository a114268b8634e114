package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/phiguard/internal/auth/domain"
	apperrors "github.com/allisson/phiguard/internal/errors"
	tenantDomain "github.com/allisson/phiguard/internal/tenant/domain"
)

// fakeClientRepository stores clients in memory keyed by id.
type fakeClientRepository struct {
	clients map[uuid.UUID]*authDomain.Client
}

func newFakeClientRepository() *fakeClientRepository {
	return &fakeClientRepository{clients: make(map[uuid.UUID]*authDomain.Client)}
}

func (r *fakeClientRepository) Create(_ context.Context, client *authDomain.Client) error {
	r.clients[client.ID] = client
	return nil
}

func (r *fakeClientRepository) Get(_ context.Context, id uuid.UUID) (*authDomain.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "client not found")
	}
	return client, nil
}

func (r *fakeClientRepository) List(_ context.Context, offset, limit int) ([]*authDomain.Client, error) {
	out := make([]*authDomain.Client, 0, len(r.clients))
	for _, client := range r.clients {
		out = append(out, client)
	}
	return out, nil
}

type fakeTenantGetter struct {
	tenants map[uuid.UUID]*tenantDomain.Tenant
}

func (g *fakeTenantGetter) Get(_ context.Context, id uuid.UUID) (*tenantDomain.Tenant, error) {
	tenant, ok := g.tenants[id]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "tenant not found")
	}
	return tenant, nil
}

// fakeSecretService hashes by prefixing, which keeps assertions readable.
type fakeSecretService struct {
	plainSecret string
}

func (s *fakeSecretService) GenerateSecret() (string, string, error) {
	return s.plainSecret, "hashed:" + s.plainSecret, nil
}

func (s *fakeSecretService) HashSecret(plainSecret string) (string, error) {
	return "hashed:" + plainSecret, nil
}

func (s *fakeSecretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	return "hashed:"+plainSecret == hashedSecret
}

func newTestClientUseCase(tenantID uuid.UUID) (ClientUseCase, *fakeClientRepository) {
	clientRepo := newFakeClientRepository()
	tenantRepo := &fakeTenantGetter{
		tenants: map[uuid.UUID]*tenantDomain.Tenant{
			tenantID: {ID: tenantID, Name: "clinica-exemplo", Active: true},
		},
	}
	uc := NewClientUseCase(clientRepo, tenantRepo, &fakeSecretService{plainSecret: "super-secret"})
	return uc, clientRepo
}

func TestClientUseCase_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.Must(uuid.NewV7())

	t.Run("success returns the plaintext secret once", func(t *testing.T) {
		uc, clientRepo := newTestClientUseCase(tenantID)

		client, plainSecret, err := uc.Create(ctx, CreateClientInput{
			Name:     "ingest-worker",
			TenantID: tenantID,
			Role:     authDomain.RoleService,
		})
		require.NoError(t, err)

		assert.Equal(t, "super-secret", plainSecret)
		assert.Equal(t, "ingest-worker", client.Name)
		assert.Equal(t, tenantID, client.TenantID)
		assert.Equal(t, authDomain.RoleService, client.Role)
		assert.True(t, client.Active)
		assert.Equal(t, "hashed:super-secret", client.HashedSecret)
		assert.NotEqual(t, plainSecret, client.HashedSecret)

		stored, err := clientRepo.Get(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, client, stored)
	})

	t.Run("blank name", func(t *testing.T) {
		uc, _ := newTestClientUseCase(tenantID)

		_, _, err := uc.Create(ctx, CreateClientInput{
			Name:     "   ",
			TenantID: tenantID,
			Role:     authDomain.RoleStaff,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("unknown role", func(t *testing.T) {
		uc, _ := newTestClientUseCase(tenantID)

		_, _, err := uc.Create(ctx, CreateClientInput{
			Name:     "ingest-worker",
			TenantID: tenantID,
			Role:     "superuser",
		})
		assert.ErrorIs(t, err, authDomain.ErrInvalidRole)
	})

	t.Run("missing tenant identity", func(t *testing.T) {
		uc, _ := newTestClientUseCase(tenantID)

		_, _, err := uc.Create(ctx, CreateClientInput{
			Name:     "ingest-worker",
			TenantID: uuid.Nil,
			Role:     authDomain.RoleStaff,
		})
		assert.ErrorIs(t, err, tenantDomain.ErrMissingTenantIdentity)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		uc, _ := newTestClientUseCase(tenantID)

		_, _, err := uc.Create(ctx, CreateClientInput{
			Name:     "ingest-worker",
			TenantID: uuid.Must(uuid.NewV7()),
			Role:     authDomain.RoleStaff,
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestClientUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.Must(uuid.NewV7())

	setup := func(t *testing.T) (ClientUseCase, *authDomain.Client, string) {
		t.Helper()
		uc, _ := newTestClientUseCase(tenantID)
		client, plainSecret, err := uc.Create(ctx, CreateClientInput{
			Name:     "front-desk",
			TenantID: tenantID,
			Role:     authDomain.RoleStaff,
		})
		require.NoError(t, err)
		return uc, client, plainSecret
	}

	t.Run("valid credentials resolve to an actor", func(t *testing.T) {
		uc, client, plainSecret := setup(t)

		actor, err := uc.Authenticate(ctx, client.ID, plainSecret)
		require.NoError(t, err)

		assert.Equal(t, client.ID, actor.ClientID)
		assert.Equal(t, tenantID, actor.TenantID)
		assert.Equal(t, authDomain.RoleStaff, actor.Role)
	})

	t.Run("unknown client id", func(t *testing.T) {
		uc, _, plainSecret := setup(t)

		_, err := uc.Authenticate(ctx, uuid.Must(uuid.NewV7()), plainSecret)
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("wrong secret", func(t *testing.T) {
		uc, client, _ := setup(t)

		_, err := uc.Authenticate(ctx, client.ID, "not-the-secret")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("inactive client", func(t *testing.T) {
		uc, client, plainSecret := setup(t)
		client.Active = false

		_, err := uc.Authenticate(ctx, client.ID, plainSecret)
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})
}
