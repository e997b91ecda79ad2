package task

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/types"
)

// MoveCmd returns the task move subcommand
func MoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <column>",
		Short: "Move a task to another column",
		Long: `Move a task to another column of its project. The column may be given
by ID or by slug.

Examples:
  tablero task move task-12 done
  tablero task move task-12 col-3
`,
		Args: cobra.ExactArgs(2),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			ctx := cmd.Context()
			id := types.TaskID(args[0])

			t, err := a.TaskService.GetTask(ctx, id)
			if err != nil {
				return err
			}
			columns, err := a.ColumnService.ListColumns(ctx, t.ProjectID)
			if err != nil {
				return err
			}
			col := findColumn(columns, args[1])
			if col == nil {
				return cli.Usagef("List the columns with: tablero column list", "no column %q in project %s", args[1], t.ProjectID)
			}

			if err := a.TaskService.MoveTaskToColumn(ctx, id, col.ID); err != nil {
				return err
			}
			t.StatusID = col.ID
			return out.Success(t, func(w io.Writer) {
				fmt.Fprintf(w, "✓ Task '%s' moved to %s\n", t.Title, col.Name)
			})
		}),
	}
}
