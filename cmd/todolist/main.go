package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/todolist/adapter/cli"
	climcp "github.com/felixgeelhaar/todolist/adapter/cli/mcp"
	"github.com/felixgeelhaar/todolist/adapter/cli/task"
	"github.com/felixgeelhaar/todolist/internal/app"
	"github.com/felixgeelhaar/todolist/pkg/config"
	"github.com/felixgeelhaar/todolist/pkg/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Cancel on SIGINT/SIGTERM; servers shut down gracefully from there
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logCfg := observability.DefaultLogConfig()
	if cfg.IsProduction() {
		logCfg = observability.ProductionLogConfig()
	}
	if cfg.LogLevel != "" {
		logCfg.Level = observability.LogLevel(cfg.LogLevel)
	}
	if cfg.LogFormat != "" {
		logCfg.Format = observability.LogFormat(cfg.LogFormat)
	}
	logCfg.ServiceVersion = cli.Version
	logger := observability.NewLogger(logCfg)

	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			return 1
		}
		// In development, allow read-only commands like version to run
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()
		cliApp = cli.NewApp(cfg, logger, container.TaskService, container.Health, container.Metrics)
	}

	root := cli.NewRootCmd(logger)
	root.AddCommand(cli.NewServeCmd(cliApp))
	root.AddCommand(climcp.NewCmd(cliApp))
	root.AddCommand(task.NewCmd(cliApp))

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
