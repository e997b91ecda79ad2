package task

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	taskservice "github.com/thenoetrevino/tablero/internal/services/task"
	"github.com/thenoetrevino/tablero/internal/types"
)

// CreateCmd returns the task create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		Long: `Create a new task in the current project (or --project).

Examples:
  # Minimal, lands in the first column
  tablero task create --title="Fix login"

  # Full details
  tablero task create --title="Fix login" --priority=high --column=in_progress \
    --due=2026-03-01 --estimate=4 --description="Users are logged out on refresh"

  # Quiet mode for bash capture
  TASK_ID=$(tablero task create --title="Fix login" --quiet)
`,
		Args: cobra.NoArgs,
		RunE: cli.Run(runCreate),
	}

	cli.AddProjectFlag(cmd)
	cmd.Flags().String("title", "", "Task title (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().String("description", "", "Task description (markdown)")
	cmd.Flags().String("priority", "", "low, medium, high or urgent (default: medium)")
	cmd.Flags().String("column", "", "Column ID or slug (default: first column)")
	cmd.Flags().String("assignee", "", "Assignee user ID")
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().Float64("estimate", 0, "Estimated hours")

	return cmd
}

func runCreate(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
	ctx := cmd.Context()
	projectID, err := cli.ResolveProject(ctx, cmd, a)
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	priority, _ := cmd.Flags().GetString("priority")
	assignee, _ := cmd.Flags().GetString("assignee")
	column, _ := cmd.Flags().GetString("column")
	due, _ := cmd.Flags().GetString("due")

	columnID, err := columnRef(cmd, a, projectID, column)
	if err != nil {
		return err
	}
	req := taskservice.CreateTaskRequest{
		ProjectID:      projectID,
		Title:          title,
		Description:    description,
		Priority:       priority,
		ColumnID:       columnID,
		AssigneeID:     types.UserID(assignee),
		EstimatedHours: cli.OptionalFloat(cmd, "estimate"),
	}
	if due != "" {
		d, err := cli.ParseDate(due)
		if err != nil {
			return err
		}
		req.DueDate = &d
	}

	t, err := a.TaskService.CreateTask(ctx, req)
	if err != nil {
		return err
	}
	return out.Success(t, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Task '%s' created successfully (ID: %s)\n", t.Title, t.ID)
	})
}
