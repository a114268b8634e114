// Package usecase implements business logic for API client management and
// request authentication.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/phiguard/internal/auth/domain"
)

// ClientRepository defines persistence operations for API clients. Clients
// are operator-managed identities, not tenant-owned data, so the repository
// takes no scope.
type ClientRepository interface {
	Create(ctx context.Context, client *authDomain.Client) error
	Get(ctx context.Context, id uuid.UUID) (*authDomain.Client, error)
	List(ctx context.Context, offset, limit int) ([]*authDomain.Client, error)
}

// CreateClientInput contains the input for creating an API client.
type CreateClientInput struct {
	Name     string
	TenantID uuid.UUID
	Role     string
}

// ClientUseCase defines API client operations. Create returns the plaintext
// secret exactly once; only its Argon2id hash is stored.
type ClientUseCase interface {
	Create(ctx context.Context, input CreateClientInput) (client *authDomain.Client, plainSecret string, err error)
	// Authenticate resolves client credentials to a request actor. Unknown
	// clients, inactive clients and wrong secrets all fail with the same
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, clientID uuid.UUID, secret string) (authDomain.Actor, error)
	List(ctx context.Context, offset, limit int) ([]*authDomain.Client, error)
}
