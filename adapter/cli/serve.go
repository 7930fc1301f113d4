package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todolist/adapter/api"
)

// NewServeCmd creates the command running the HTTP API until the command
// context is canceled.
func NewServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Ready(); err != nil {
				return err
			}

			cfg := api.DefaultServerConfig()
			shutdownTimeout := 10 * time.Second
			if c := app.Config; c != nil {
				cfg.Addr = c.HTTPAddr
				cfg.ReadTimeout = c.HTTPReadTimeout
				cfg.WriteTimeout = c.HTTPWriteTimeout
				cfg.IdleTimeout = c.HTTPIdleTimeout
				if c.ShutdownTimeout > 0 {
					shutdownTimeout = c.ShutdownTimeout
				}
			}
			if addr != "" {
				cfg.Addr = addr
			}

			handler := api.NewTaskHandler(app.Tasks, app.Logger)
			server := api.NewServer(cfg, handler, app.Health, app.Logger, app.Metrics)
			return runServer(cmd.Context(), server, shutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

type startStopper interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// runServer blocks until ctx is done or the server fails, then shuts down
// within timeout.
func runServer(ctx context.Context, server startStopper, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
