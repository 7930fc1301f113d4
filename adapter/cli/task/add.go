package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todolist/adapter/cli"
	"github.com/felixgeelhaar/todolist/internal/tasks/application/services"
)

func newAddCmd(app *cli.App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new task",
		Long: `Add a new task. Without --status the task starts as "Iniciada".

Examples:
  todolist task add "Write report"
  todolist task add "Review PR" --status "Em Andamento"`,
		Aliases: []string{"create"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Ready(); err != nil {
				return err
			}

			t, err := app.Tasks.Add(cmd.Context(), services.TaskInput{
				Title:  args[0],
				Status: optionalStatus(cmd, status),
			})
			if err != nil {
				return fmt.Errorf("failed to add task: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Task added: %s\n", t.ID)
			fmt.Fprintf(out, "  title: %s\n", t.Title)
			fmt.Fprintf(out, "  status: %s\n", t.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "initial status")
	return cmd
}
