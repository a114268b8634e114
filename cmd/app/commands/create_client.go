package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/allisson/phiguard/internal/app"
	authUseCase "github.com/allisson/phiguard/internal/auth/usecase"
	"github.com/allisson/phiguard/internal/config"
)

// RunCreateClient creates a new API client bound to a tenant and prints the
// client ID and plaintext secret. The secret is shown exactly once; only its
// hash is stored.
//
// Requirements: Database must be migrated and accessible, and the tenant must
// already exist.
func RunCreateClient(ctx context.Context, name, tenantID, role string, io IOTuple) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	parsedTenantID, err := uuid.Parse(tenantID)
	if err != nil {
		return fmt.Errorf("invalid tenant id: %w", err)
	}

	clientUseCase, err := container.ClientUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize client use case: %w", err)
	}

	input := authUseCase.CreateClientInput{
		Name:     name,
		TenantID: parsedTenantID,
		Role:     role,
	}

	client, plainSecret, err := clientUseCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	_, _ = fmt.Fprintln(io.Writer, "\nClient created successfully!")
	_, _ = fmt.Fprintf(io.Writer, "Client ID: %s\n", client.ID.String())
	_, _ = fmt.Fprintf(io.Writer, "Tenant ID: %s\n", client.TenantID.String())
	_, _ = fmt.Fprintf(io.Writer, "Role: %s\n", client.Role)
	_, _ = fmt.Fprintf(io.Writer, "Secret: %s\n", plainSecret)
	_, _ = fmt.Fprintln(io.Writer, "\nIMPORTANT: The secret is shown only once. Store it securely.")

	logger.Info("client created successfully",
		slog.String("client_id", client.ID.String()),
		slog.String("tenant_id", client.TenantID.String()),
		slog.String("name", name),
	)

	return nil
}
