package task

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todolist/adapter/cli"
)

func newListCmd(app *cli.App) *cobra.Command {
	var (
		page     int
		pageSize int
		status   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks one page at a time, optionally filtered by status.
The status filter ignores case.

Examples:
  todolist task list
  todolist task list --page 2 --page-size 5
  todolist task list --status concluido`,
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Ready(); err != nil {
				return err
			}

			var filter *string
			if status != "" {
				filter = &status
			}

			tasks, total, err := app.Tasks.ListPaged(cmd.Context(), page, pageSize, filter)
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}

			out := cmd.OutOrStdout()
			if total == 0 {
				fmt.Fprintln(out, "No tasks found.")
				return nil
			}

			pages := total / pageSize
			if total%pageSize != 0 {
				pages++
			}
			fmt.Fprintf(out, "Tasks (%d, page %d of %d):\n", total, page, pages)
			fmt.Fprintln(out, strings.Repeat("-", 60))
			for _, t := range tasks {
				printTask(out, t)
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&pageSize, "page-size", 10, "tasks per page")
	cmd.Flags().StringVarP(&status, "status", "s", "", "only tasks with this status")
	return cmd
}
