package app

import (
	"fmt"

	eventsHTTP "github.com/allisson/phiguard/internal/events/http"
	eventsRepository "github.com/allisson/phiguard/internal/events/repository"
	eventsService "github.com/allisson/phiguard/internal/events/service"
	eventsUseCase "github.com/allisson/phiguard/internal/events/usecase"
)

// EventRepository returns the event repository based on the database driver.
func (c *Container) EventRepository() (eventsUseCase.EventRepository, error) {
	var err error
	c.eventRepoInit.Do(func() {
		c.eventRepo, err = c.initEventRepository()
		if err != nil {
			c.initErrors["eventRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventRepo"]; exists {
		return nil, storedErr
	}
	return c.eventRepo, nil
}

// EventUseCase returns the event use case instance.
func (c *Container) EventUseCase() (eventsUseCase.EventUseCase, error) {
	var err error
	c.eventUCInit.Do(func() {
		c.eventUC, err = c.initEventUseCase()
		if err != nil {
			c.initErrors["eventUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventUseCase"]; exists {
		return nil, storedErr
	}
	return c.eventUC, nil
}

// ProcessorUseCase returns the background event processor use case instance.
func (c *Container) ProcessorUseCase() (eventsUseCase.ProcessorUseCase, error) {
	var err error
	c.processorUCInit.Do(func() {
		c.processorUC, err = c.initProcessorUseCase()
		if err != nil {
			c.initErrors["processorUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["processorUseCase"]; exists {
		return nil, storedErr
	}
	return c.processorUC, nil
}

// EventHandler returns the event HTTP handler.
func (c *Container) EventHandler() (*eventsHTTP.EventHandler, error) {
	useCase, err := c.EventUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get event use case for event handler: %w", err)
	}
	return eventsHTTP.NewEventHandler(useCase, c.Logger()), nil
}

// initEventRepository creates the event repository based on the database driver.
func (c *Container) initEventRepository() (eventsUseCase.EventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for event repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return eventsRepository.NewPostgreSQLEventRepository(db), nil
	case "mysql":
		return eventsRepository.NewMySQLEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initEventUseCase creates the event use case with all its dependencies.
func (c *Container) initEventUseCase() (eventsUseCase.EventUseCase, error) {
	eventRepo, err := c.EventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get event repository for event use case: %w", err)
	}

	payloadSanitizer, err := c.Sanitizer()
	if err != nil {
		return nil, fmt.Errorf("failed to get sanitizer for event use case: %w", err)
	}

	useCase := eventsUseCase.NewEventUseCase(eventRepo, payloadSanitizer)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for event use case: %w", err)
		}
		useCase = eventsUseCase.NewEventUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initProcessorUseCase creates the event processor use case with all its dependencies.
func (c *Container) initProcessorUseCase() (eventsUseCase.ProcessorUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for processor use case: %w", err)
	}

	eventRepo, err := c.EventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get event repository for processor use case: %w", err)
	}

	logger := c.Logger()
	processorConfig := eventsUseCase.Config{
		Interval:   c.config.WorkerInterval,
		BatchSize:  c.config.WorkerBatchSize,
		MaxRetries: c.config.WorkerMaxRetries,
	}

	eventProcessor := eventsService.NewLogProcessor(logger)

	return eventsUseCase.NewProcessorUseCase(processorConfig, txManager, eventRepo, eventProcessor, logger), nil
}
