// Package column holds the `tablero column` commands
package column

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/models"
	columnservice "github.com/thenoetrevino/tablero/internal/services/column"
)

// ColumnCmd returns the column parent command
func ColumnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Manage the columns of a project board",
	}
	cli.AddOutputFlags(cmd)

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(ReorderCmd())
	cmd.AddCommand(MoveCmd())

	return cmd
}

// ListCmd returns the column list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List columns in board order",
		Args:  cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
			ctx := cmd.Context()
			projectID, err := cli.ResolveProject(ctx, cmd, a)
			if err != nil {
				return err
			}

			columns, err := a.ColumnService.ListColumns(ctx, projectID)
			if err != nil {
				return err
			}
			return out.Success(columns, func(w io.Writer) {
				printColumns(w, columns)
			})
		}),
	}
	cli.AddProjectFlag(cmd)
	return cmd
}

// CreateCmd returns the column create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a column to the end of the board",
		Long: `Add a column to the end of the board.

Examples:
  # Slug derived from the name (in_review)
  tablero column create --name="In Review"

  # Completed column with a color
  tablero column create --name=Shipped --color="#A3BE8C" --completed
`,
		Args: cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
			ctx := cmd.Context()
			projectID, err := cli.ResolveProject(ctx, cmd, a)
			if err != nil {
				return err
			}

			name, _ := cmd.Flags().GetString("name")
			slug, _ := cmd.Flags().GetString("slug")
			color, _ := cmd.Flags().GetString("color")
			completed, _ := cmd.Flags().GetBool("completed")

			col, err := a.ColumnService.CreateColumn(ctx, columnservice.CreateColumnRequest{
				ProjectID:   projectID,
				Name:        name,
				Slug:        slug,
				Color:       color,
				IsCompleted: completed,
			})
			if err != nil {
				return err
			}
			return out.Success(col, func(w io.Writer) {
				fmt.Fprintf(w, "✓ Column '%s' created successfully (ID: %s, slug: %s)\n", col.Name, col.ID, col.Slug)
			})
		}),
	}

	cli.AddProjectFlag(cmd)
	cmd.Flags().String("name", "", "Column name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().String("slug", "", "Column slug (default: derived from the name)")
	cmd.Flags().String("color", "", "Hex color, e.g. #7D56F4")
	cmd.Flags().Bool("completed", false, "Tasks in this column count as done")
	return cmd
}

func printColumns(w io.Writer, columns []*models.Column) {
	if len(columns) == 0 {
		fmt.Fprintln(w, "No columns found")
		return
	}
	fmt.Fprintf(w, "Found %d columns:\n\n", len(columns))
	for i, col := range columns {
		fmt.Fprintf(w, "  %d. [%s] %s (%s)", i+1, col.ID, col.Name, col.Slug)
		if col.IsCompleted {
			fmt.Fprint(w, " ✓")
		}
		fmt.Fprintln(w)
	}
}
