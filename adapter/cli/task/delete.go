package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todolist/adapter/cli"
	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
)

func newDeleteCmd(app *cli.App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete [id]",
		Short:   "Delete a task",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Ready(); err != nil {
				return err
			}
			id, err := task.ParseID(args[0])
			if err != nil {
				return err
			}

			removed, err := app.Tasks.Delete(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to delete task: %w", err)
			}
			if !removed {
				return task.ErrNotFound
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Task deleted: %s\n", id)
			return nil
		},
	}
}
