package task

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	taskservice "github.com/thenoetrevino/tablero/internal/services/task"
	"github.com/thenoetrevino/tablero/internal/types"
)

// UpdateCmd returns the task update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update task details",
		Long: `Update a task's details. Only the flags given are changed. Use
'tablero task move' to change the column.`,
		Args: cobra.ExactArgs(1),
		RunE: cli.Run(runUpdate),
	}

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description (markdown)")
	cmd.Flags().String("priority", "", "low, medium, high or urgent")
	cmd.Flags().String("assignee", "", "Assignee user ID")
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().Float64("estimate", 0, "Estimated hours")
	cmd.Flags().Float64("actual", 0, "Actual hours spent")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
	req := taskservice.UpdateTaskRequest{
		ID:             types.TaskID(args[0]),
		Title:          cli.OptionalString(cmd, "title"),
		Description:    cli.OptionalString(cmd, "description"),
		Priority:       cli.OptionalString(cmd, "priority"),
		EstimatedHours: cli.OptionalFloat(cmd, "estimate"),
		ActualHours:    cli.OptionalFloat(cmd, "actual"),
	}
	if assignee := cli.OptionalString(cmd, "assignee"); assignee != nil {
		id := types.UserID(*assignee)
		req.AssigneeID = &id
	}
	if due := cli.OptionalString(cmd, "due"); due != nil {
		d, err := cli.ParseDate(*due)
		if err != nil {
			return err
		}
		req.DueDate = &d
	}

	t, err := a.TaskService.UpdateTask(cmd.Context(), req)
	if err != nil {
		return err
	}
	return out.Success(t, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Task '%s' updated\n", t.Title)
	})
}

// DeleteCmd returns the task delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			id := types.TaskID(args[0])
			if force, _ := cmd.Flags().GetBool("force"); !force {
				return cli.Usagef("Re-run with --force to confirm", "refusing to delete task %s without --force", id)
			}
			if err := a.TaskService.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			out.Message("✓ Task %s deleted", id)
			return nil
		}),
	}

	cmd.Flags().Bool("force", false, "Confirm deletion")
	return cmd
}
