package cli

import (
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/todolist/internal/tasks/application/services"
	"github.com/felixgeelhaar/todolist/pkg/config"
	"github.com/felixgeelhaar/todolist/pkg/observability"
)

// ErrNotInitialized is returned by commands that need a store when the
// application could not be wired.
var ErrNotInitialized = errors.New("application not initialized - task store connection required")

// App holds the CLI application dependencies.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics
	Health  *observability.HealthRegistry

	Tasks *services.TaskService
}

// NewApp creates a new CLI application.
func NewApp(cfg *config.Config, logger *slog.Logger, tasks *services.TaskService, health *observability.HealthRegistry, metrics observability.Metrics) *App {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Health:  health,
		Tasks:   tasks,
	}
}

// Ready reports whether a is usable by commands that touch tasks.
func (a *App) Ready() error {
	if a == nil || a.Tasks == nil {
		return ErrNotInitialized
	}
	return nil
}
