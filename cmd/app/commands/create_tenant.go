package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/allisson/phiguard/internal/app"
	"github.com/allisson/phiguard/internal/config"
)

// RunCreateTenant creates a new tenant and prints its ID.
//
// Requirements: Database must be migrated and accessible.
func RunCreateTenant(ctx context.Context, name string, io IOTuple) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	tenantUseCase, err := container.TenantUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize tenant use case: %w", err)
	}

	tenant, err := tenantUseCase.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	_, _ = fmt.Fprintln(io.Writer, "\nTenant created successfully!")
	_, _ = fmt.Fprintf(io.Writer, "Tenant ID: %s\n", tenant.ID.String())
	_, _ = fmt.Fprintf(io.Writer, "Name: %s\n", tenant.Name)

	logger.Info("tenant created successfully",
		slog.String("tenant_id", tenant.ID.String()),
		slog.String("name", tenant.Name),
	)

	return nil
}
