package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todolist/adapter/cli"
	"github.com/felixgeelhaar/todolist/internal/tasks/application/services"
	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
)

func newUpdateCmd(app *cli.App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "update [id] [title]",
		Short: "Replace a task",
		Long: `Replace the title and status of a task. The update is a full
replacement: leaving out --status clears the status.

Examples:
  todolist task update 0194c3a0-... "Write report" --status Concluido`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Ready(); err != nil {
				return err
			}
			id, err := task.ParseID(args[0])
			if err != nil {
				return err
			}

			t, err := app.Tasks.Update(cmd.Context(), id, services.TaskInput{
				Title:  args[1],
				Status: optionalStatus(cmd, status),
			})
			if err != nil {
				return fmt.Errorf("failed to update task: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Task updated: %s\n", t.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "new status")
	return cmd
}
