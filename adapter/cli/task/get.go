package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todolist/adapter/cli"
	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
)

func newGetCmd(app *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:     "get [id]",
		Short:   "Show a task",
		Aliases: []string{"show"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Ready(); err != nil {
				return err
			}
			id, err := task.ParseID(args[0])
			if err != nil {
				return err
			}

			t, err := app.Tasks.GetByID(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to get task: %w", err)
			}
			printTask(cmd.OutOrStdout(), t)
			return nil
		},
	}
}
