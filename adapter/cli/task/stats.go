package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todolist/adapter/cli"
	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
)

func newStatsCmd(app *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion percentages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Ready(); err != nil {
				return err
			}

			pct, err := app.Tasks.GetPercentages(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to compute stats: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-14s %6.2f%%\n", task.StatusCompleted+":", pct.Completed)
			fmt.Fprintf(out, "%-14s %6.2f%%\n", task.StatusInProgress+":", pct.InProgress)
			fmt.Fprintf(out, "%-14s %6.2f%%\n", task.StatusDeleted+":", pct.Deleted)
			return nil
		},
	}
}
