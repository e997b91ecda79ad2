// Package task holds the `tablero task` and `tablero comment` commands
package task

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/cli/styles"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// TaskCmd returns the task parent command
func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cli.AddOutputFlags(cmd)

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(MoveCmd())

	return cmd
}

type columnTasks struct {
	*models.Column
	Tasks []*models.Task `json:"tasks"`
}

// ListCmd returns the task list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks grouped by column",
		Long: `List a project's tasks under the column each one is shown in on the
board. Tasks without a matching column appear under the first column.`,
		Args: cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
			ctx := cmd.Context()
			projectID, err := cli.ResolveProject(ctx, cmd, a)
			if err != nil {
				return err
			}
			only, _ := cmd.Flags().GetString("column")

			b, err := a.TaskService.GetBoard(ctx, projectID)
			if err != nil {
				return err
			}

			var groups []columnTasks
			for _, col := range b.Columns {
				if only != "" && string(col.ID) != only && col.Slug != only {
					continue
				}
				tasks := b.In(col.ID)
				if tasks == nil {
					tasks = []*models.Task{}
				}
				groups = append(groups, columnTasks{Column: col, Tasks: tasks})
			}
			if only != "" && len(groups) == 0 {
				return cli.Usagef("List the columns with: tablero column list", "no column %q in project %s", only, projectID)
			}

			if out.Quiet {
				var all []*models.Task
				for _, g := range groups {
					all = append(all, g.Tasks...)
				}
				return out.Success(all, nil)
			}
			return out.Success(groups, func(w io.Writer) {
				for _, g := range groups {
					fmt.Fprintf(w, "%s (%d)\n", styles.TitleStyle.Render(g.Name), len(g.Tasks))
					for _, t := range g.Tasks {
						printTaskLine(w, t)
					}
					fmt.Fprintln(w)
				}
			})
		}),
	}

	cli.AddProjectFlag(cmd)
	cmd.Flags().String("column", "", "Only list one column (ID or slug)")
	return cmd
}

func printTaskLine(w io.Writer, t *models.Task) {
	fmt.Fprintf(w, "  [%s] %s  %s", t.ID, t.Title, styles.PriorityBadge(t.Priority))
	if t.DueDate != nil {
		fmt.Fprintf(w, "  due %s", t.DueDate.Format("2006-01-02"))
	}
	fmt.Fprintln(w)
}

// findColumn matches a column by ID or slug
func findColumn(columns []*models.Column, ref string) *models.Column {
	for _, col := range columns {
		if string(col.ID) == ref {
			return col
		}
	}
	for _, col := range columns {
		if col.Slug == ref {
			return col
		}
	}
	return nil
}

func columnRef(cmd *cobra.Command, a *app.App, projectID types.ProjectID, ref string) (types.ColumnID, error) {
	if ref == "" {
		return "", nil
	}
	columns, err := a.ColumnService.ListColumns(cmd.Context(), projectID)
	if err != nil {
		return "", err
	}
	col := findColumn(columns, ref)
	if col == nil {
		return "", cli.Usagef("List the columns with: tablero column list", "no column %q in project %s", ref, projectID)
	}
	return col.ID, nil
}
