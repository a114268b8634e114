package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	authDomain "github.com/allisson/phiguard/internal/auth/domain"
	authService "github.com/allisson/phiguard/internal/auth/service"
	apperrors "github.com/allisson/phiguard/internal/errors"
	tenantDomain "github.com/allisson/phiguard/internal/tenant/domain"
	appValidation "github.com/allisson/phiguard/internal/validation"
)

// TenantGetter is the subset of tenant persistence the client use case needs
// to confirm the owning tenant exists before binding a client to it.
type TenantGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*tenantDomain.Tenant, error)
}

// clientUseCase implements ClientUseCase.
type clientUseCase struct {
	clientRepo    ClientRepository
	tenantRepo    TenantGetter
	secretService authService.SecretService
}

func (u *clientUseCase) validateCreateInput(input CreateClientInput) error {
	err := validation.Validate(input.Name,
		validation.Required.Error("name is required"),
		appValidation.NotBlank,
		validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}

	switch input.Role {
	case authDomain.RoleStaff, authDomain.RoleService, authDomain.RoleAdmin:
	default:
		return authDomain.ErrInvalidRole
	}

	if input.TenantID == uuid.Nil {
		return tenantDomain.ErrMissingTenantIdentity
	}

	return nil
}

// Create creates a new API client bound to an existing tenant. The plaintext
// secret is returned exactly once and never stored.
func (u *clientUseCase) Create(
	ctx context.Context,
	input CreateClientInput,
) (*authDomain.Client, string, error) {
	if err := u.validateCreateInput(input); err != nil {
		return nil, "", err
	}

	if _, err := u.tenantRepo.Get(ctx, input.TenantID); err != nil {
		return nil, "", err
	}

	plainSecret, hashedSecret, err := u.secretService.GenerateSecret()
	if err != nil {
		return nil, "", err
	}

	client := &authDomain.Client{
		ID:           uuid.Must(uuid.NewV7()),
		TenantID:     input.TenantID,
		Name:         input.Name,
		HashedSecret: hashedSecret,
		Role:         input.Role,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := u.clientRepo.Create(ctx, client); err != nil {
		return nil, "", err
	}

	return client, plainSecret, nil
}

// Authenticate resolves client credentials to a request actor. All failure
// modes collapse into ErrInvalidCredentials so responses do not reveal
// whether a client id exists.
func (u *clientUseCase) Authenticate(
	ctx context.Context,
	clientID uuid.UUID,
	secret string,
) (authDomain.Actor, error) {
	client, err := u.clientRepo.Get(ctx, clientID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return authDomain.Actor{}, authDomain.ErrInvalidCredentials
		}
		return authDomain.Actor{}, err
	}

	if !client.Active {
		return authDomain.Actor{}, authDomain.ErrInvalidCredentials
	}

	if !u.secretService.CompareSecret(secret, client.HashedSecret) {
		return authDomain.Actor{}, authDomain.ErrInvalidCredentials
	}

	return authDomain.ActorFromClient(client), nil
}

// List retrieves API clients with pagination.
func (u *clientUseCase) List(ctx context.Context, offset, limit int) ([]*authDomain.Client, error) {
	return u.clientRepo.List(ctx, offset, limit)
}

// NewClientUseCase creates a new client use case instance.
func NewClientUseCase(
	clientRepo ClientRepository,
	tenantRepo TenantGetter,
	secretService authService.SecretService,
) ClientUseCase {
	return &clientUseCase{
		clientRepo:    clientRepo,
		tenantRepo:    tenantRepo,
		secretService: secretService,
	}
}
