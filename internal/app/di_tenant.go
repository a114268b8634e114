package app

import (
	"fmt"

	tenantHTTP "github.com/allisson/phiguard/internal/tenant/http"
	tenantRepository "github.com/allisson/phiguard/internal/tenant/repository"
	tenantUseCase "github.com/allisson/phiguard/internal/tenant/usecase"
)

// TenantRepository returns the tenant repository based on the database driver.
func (c *Container) TenantRepository() (tenantUseCase.TenantRepository, error) {
	var err error
	c.tenantRepoInit.Do(func() {
		c.tenantRepo, err = c.initTenantRepository()
		if err != nil {
			c.initErrors["tenantRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tenantRepo"]; exists {
		return nil, storedErr
	}
	return c.tenantRepo, nil
}

// TenantUseCase returns the tenant use case instance.
func (c *Container) TenantUseCase() (tenantUseCase.TenantUseCase, error) {
	var err error
	c.tenantUCInit.Do(func() {
		c.tenantUC, err = c.initTenantUseCase()
		if err != nil {
			c.initErrors["tenantUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tenantUseCase"]; exists {
		return nil, storedErr
	}
	return c.tenantUC, nil
}

// TenantHandler returns the tenant HTTP handler.
func (c *Container) TenantHandler() (*tenantHTTP.TenantHandler, error) {
	useCase, err := c.TenantUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant use case for tenant handler: %w", err)
	}
	return tenantHTTP.NewTenantHandler(useCase, c.Logger()), nil
}

// initTenantRepository creates the tenant repository based on the database driver.
func (c *Container) initTenantRepository() (tenantUseCase.TenantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tenant repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return tenantRepository.NewPostgreSQLTenantRepository(db), nil
	case "mysql":
		return tenantRepository.NewMySQLTenantRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTenantUseCase creates the tenant use case with all its dependencies.
func (c *Container) initTenantUseCase() (tenantUseCase.TenantUseCase, error) {
	tenantRepo, err := c.TenantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant repository for tenant use case: %w", err)
	}
	return tenantUseCase.NewTenantUseCase(tenantRepo), nil
}
