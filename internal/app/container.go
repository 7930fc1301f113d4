// Package app wires the task store, service and supporting infrastructure.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/todolist/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/todolist/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/todolist/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/todolist/internal/tasks/application/services"
	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
	"github.com/felixgeelhaar/todolist/internal/tasks/infrastructure/persistence"
	"github.com/felixgeelhaar/todolist/pkg/config"
	"github.com/felixgeelhaar/todolist/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Health  *observability.HealthRegistry

	// Store
	StoreDriver database.Driver
	Store       task.Store
	Breaker     *persistence.BreakerTaskStore
	TaskRepo    task.Repository

	// Events
	EventPublisher eventbus.Publisher

	// Services
	TaskService *services.TaskService

	closeStore func() error
}

// NewContainer creates and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	opened, err := OpenTaskStore(ctx, StoreSettingsFromConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open task store: %w", err)
	}
	c.StoreDriver = opened.Driver
	c.Store = opened.Store
	c.closeStore = opened.Close

	if cfg.StoreBreakerEnabled {
		breakerCfg := persistence.DefaultBreakerConfig()
		if cfg.StoreBreakerMaxFailures > 0 {
			breakerCfg.FailureThreshold = convert.IntToUint32Clamped(cfg.StoreBreakerMaxFailures)
		}
		if cfg.StoreBreakerTimeout > 0 {
			breakerCfg.Timeout = cfg.StoreBreakerTimeout
		}
		c.Breaker = persistence.NewBreakerTaskStore(c.Store, "task-store-"+opened.Driver.String(), breakerCfg, logger, c.Metrics)
		c.Store = c.Breaker
	}

	c.Health.Register("store", observability.StoreHealthChecker(c.Store.Ping))

	// Create event publisher
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.EventsExchange, logger)
		if err != nil {
			// Fall back to noop publisher in development
			if !cfg.IsDevelopment() {
				c.Close()
				return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
			c.EventPublisher = eventbus.NewNoopPublisher(logger)
		} else {
			c.EventPublisher = publisher
			c.Health.Register("events", observability.RabbitMQHealthChecker(publisher.Check))
		}
	} else {
		c.EventPublisher = eventbus.NewNoopPublisher(logger)
	}

	c.TaskRepo = persistence.NewTaskRepository(c.Store)
	c.TaskService = services.NewTaskService(c.TaskRepo, c.EventPublisher, logger, c.Metrics)

	logger.Info("container initialized",
		"store", c.StoreDriver.String(),
		"breaker", cfg.StoreBreakerEnabled,
		"events", cfg.RabbitMQURL != "",
	)
	return c, nil
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.closeStore != nil {
		if err := c.closeStore(); err != nil {
			c.Logger.Warn("error closing task store", "store", c.StoreDriver.String(), "error", err)
		} else {
			c.Logger.Info("task store closed", "store", c.StoreDriver.String())
		}
		c.closeStore = nil
	}
}
