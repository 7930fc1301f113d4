package mcp

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todolist/adapter/cli"
	mcpinternal "github.com/felixgeelhaar/todolist/internal/mcp"
)

// NewCmd creates the command serving the task tools over MCP.
func NewCmd(app *cli.App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP tool server",
		Long: `Serve the task tools to MCP clients over HTTP. Set MCP_AUTH_TOKEN
to require a bearer token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Ready(); err != nil {
				return err
			}
			if app.Config == nil {
				return errors.New("config is required")
			}

			cfg := *app.Config
			if addr != "" {
				cfg.MCPAddr = addr
			}

			err := mcpinternal.Serve(cmd.Context(), &cfg, app, app.Logger)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides MCP_ADDR)")
	return cmd
}
