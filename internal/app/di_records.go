package app

import (
	"fmt"

	recordsHTTP "github.com/allisson/phiguard/internal/records/http"
	recordsRepository "github.com/allisson/phiguard/internal/records/repository"
	recordsUseCase "github.com/allisson/phiguard/internal/records/usecase"
)

// RecordRepository returns the record repository based on the database driver.
func (c *Container) RecordRepository() (recordsUseCase.RecordRepository, error) {
	var err error
	c.recordRepoInit.Do(func() {
		c.recordRepo, err = c.initRecordRepository()
		if err != nil {
			c.initErrors["recordRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordRepo"]; exists {
		return nil, storedErr
	}
	return c.recordRepo, nil
}

// RecordUseCase returns the record use case instance.
func (c *Container) RecordUseCase() (recordsUseCase.RecordUseCase, error) {
	var err error
	c.recordUCInit.Do(func() {
		c.recordUC, err = c.initRecordUseCase()
		if err != nil {
			c.initErrors["recordUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordUseCase"]; exists {
		return nil, storedErr
	}
	return c.recordUC, nil
}

// MigrationUseCase returns the scan-and-encrypt migration use case instance.
func (c *Container) MigrationUseCase() (recordsUseCase.MigrationUseCase, error) {
	var err error
	c.migrationUCInit.Do(func() {
		c.migrationUC, err = c.initMigrationUseCase()
		if err != nil {
			c.initErrors["migrationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["migrationUseCase"]; exists {
		return nil, storedErr
	}
	return c.migrationUC, nil
}

// RecordHandler returns the record HTTP handler.
func (c *Container) RecordHandler() (*recordsHTTP.RecordHandler, error) {
	useCase, err := c.RecordUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get record use case for record handler: %w", err)
	}
	return recordsHTTP.NewRecordHandler(useCase, c.Logger()), nil
}

// initRecordRepository creates the record repository based on the database driver.
func (c *Container) initRecordRepository() (recordsUseCase.RecordRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for record repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return recordsRepository.NewPostgreSQLRecordRepository(db), nil
	case "mysql":
		return recordsRepository.NewMySQLRecordRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRecordUseCase creates the record use case with all its dependencies.
func (c *Container) initRecordUseCase() (recordsUseCase.RecordUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for record use case: %w", err)
	}

	recordRepo, err := c.RecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get record repository for record use case: %w", err)
	}

	fieldGuard, err := c.FieldGuard()
	if err != nil {
		return nil, fmt.Errorf("failed to get field guard for record use case: %w", err)
	}

	hasher, err := c.LookupHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to get lookup hasher for record use case: %w", err)
	}

	useCase := recordsUseCase.NewRecordUseCase(txManager, recordRepo, fieldGuard, hasher)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for record use case: %w", err)
		}
		useCase = recordsUseCase.NewRecordUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initMigrationUseCase creates the migration use case with all its dependencies.
func (c *Container) initMigrationUseCase() (recordsUseCase.MigrationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for migration use case: %w", err)
	}

	recordRepo, err := c.RecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get record repository for migration use case: %w", err)
	}

	codec, err := c.FieldCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get field codec for migration use case: %w", err)
	}

	hasher, err := c.LookupHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to get lookup hasher for migration use case: %w", err)
	}

	return recordsUseCase.NewMigrationUseCase(txManager, recordRepo, codec, hasher, c.Logger()), nil
}
