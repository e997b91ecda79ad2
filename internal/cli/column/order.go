package column

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/types"
)

// ReorderCmd returns the column reorder subcommand
func ReorderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reorder <column-id>...",
		Short: "Set the complete column order",
		Long: `Set the complete column order. Every column of the project must be
listed exactly once, left to right.

Examples:
  tablero column reorder col-3 col-1 col-2
`,
		Args: cobra.MinimumNArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			ctx := cmd.Context()
			projectID, err := cli.ResolveProject(ctx, cmd, a)
			if err != nil {
				return err
			}

			if err := a.ColumnService.ReorderColumns(ctx, projectID, types.ColumnIDs(args...)); err != nil {
				return err
			}
			columns, err := a.ColumnService.ListColumns(ctx, projectID)
			if err != nil {
				return err
			}
			return out.Success(columns, func(w io.Writer) {
				fmt.Fprintln(w, "✓ Columns reordered")
				printColumns(w, columns)
			})
		}),
	}
	cli.AddProjectFlag(cmd)
	return cmd
}

// MoveCmd returns the column move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <column-id> <position>",
		Short: "Move one column to a 1-based position",
		Args:  cobra.ExactArgs(2),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			ctx := cmd.Context()
			projectID, err := cli.ResolveProject(ctx, cmd, a)
			if err != nil {
				return err
			}
			position, err := strconv.Atoi(args[1])
			if err != nil || position < 1 {
				return cli.Usagef("Positions start at 1 (the leftmost column)", "invalid position %q", args[1])
			}

			columns, err := a.ColumnService.MoveColumn(ctx, projectID, types.ColumnID(args[0]), position-1)
			if err != nil {
				return err
			}
			return out.Success(columns, func(w io.Writer) {
				fmt.Fprintf(w, "✓ Column moved to position %d\n", position)
				printColumns(w, columns)
			})
		}),
	}
	cli.AddProjectFlag(cmd)
	return cmd
}
