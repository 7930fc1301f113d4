package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/todolist/pkg/observability"
)

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("cli.health").
		Description("Check task store and event bus health").
		Handler(func(ctx context.Context, input struct{}) (observability.OverallHealth, error) {
			if app == nil {
				return observability.OverallHealth{}, errors.New("app not initialized")
			}
			if app.Health == nil {
				return observability.OverallHealth{
					Status:    observability.HealthStatusHealthy,
					Timestamp: time.Now(),
				}, nil
			}
			return app.Health.GetOverallHealth(ctx), nil
		})

	return nil
}
