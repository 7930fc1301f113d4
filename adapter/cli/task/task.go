// Package task implements the task subcommands.
package task

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/todolist/adapter/cli"
	"github.com/felixgeelhaar/todolist/internal/tasks/domain/task"
)

// NewCmd creates the task command group.
func NewCmd(app *cli.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
		Long:  `Add, list, update, and delete tasks, and show completion statistics.`,
	}

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newGetCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newUpdateCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	return cmd
}

func getStatusIcon(status string) string {
	switch status {
	case task.StatusCompleted:
		return "[x]"
	case task.StatusInProgress:
		return "[>]"
	case task.StatusDeleted:
		return "[-]"
	default:
		return "[ ]"
	}
}

func printTask(w io.Writer, t *task.Task) {
	fmt.Fprintf(w, "%s %s\n", getStatusIcon(t.Status), t.Title)
	fmt.Fprintf(w, "   ID: %s\n", t.ID)
	if t.Status != "" {
		fmt.Fprintf(w, "   Status: %s\n", t.Status)
	}
}

// optionalStatus returns nil unless the --status flag was given.
func optionalStatus(cmd *cobra.Command, value string) *string {
	if !cmd.Flags().Changed("status") {
		return nil
	}
	return &value
}
