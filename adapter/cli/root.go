package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todolist/pkg/observability"
)

type commandContext struct {
	correlationID string
	startedAt     time.Time
}

type commandContextKey struct{}

// NewRootCmd creates the base command. Every invocation gets its own
// correlation id, which is logged and carried into published events.
func NewRootCmd(logger *slog.Logger) *cobra.Command {
	if logger == nil {
		logger = slog.Default()
	}

	root := &cobra.Command{
		Use:   "todolist",
		Short: "todolist - task list service",
		Long: `todolist manages a list of tasks with a status each.

It serves a JSON HTTP API, an MCP tool server, and offers the same
operations directly from the command line.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			info := commandContext{
				correlationID: uuid.New().String(),
				startedAt:     time.Now(),
			}
			ctx = observability.WithCorrelationID(ctx, info.correlationID)
			cmd.SetContext(context.WithValue(ctx, commandContextKey{}, info))
			logger.Debug("command start",
				"command", cmd.CommandPath(),
				observability.CorrelationIDKey, info.correlationID,
			)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
			if !ok {
				return
			}
			logger.Debug("command end",
				"command", cmd.CommandPath(),
				observability.CorrelationIDKey, info.correlationID,
				observability.DurationKey, time.Since(info.startedAt).Milliseconds(),
			)
		},
	}

	root.AddCommand(newVersionCmd())
	return root
}
