package column

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	columnservice "github.com/thenoetrevino/tablero/internal/services/column"
	"github.com/thenoetrevino/tablero/internal/types"
)

// UpdateCmd returns the column update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <column-id>",
		Short: "Rename, recolor or (un)complete a column",
		Args:  cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			col, err := a.ColumnService.UpdateColumn(cmd.Context(), columnservice.UpdateColumnRequest{
				ID:          types.ColumnID(args[0]),
				Name:        cli.OptionalString(cmd, "name"),
				Color:       cli.OptionalString(cmd, "color"),
				IsCompleted: cli.OptionalBool(cmd, "completed"),
			})
			if err != nil {
				return err
			}
			return out.Success(col, func(w io.Writer) {
				fmt.Fprintf(w, "✓ Column '%s' updated\n", col.Name)
			})
		}),
	}

	cmd.Flags().String("name", "", "New column name")
	cmd.Flags().String("color", "", "New hex color (empty clears it)")
	cmd.Flags().Bool("completed", false, "Whether tasks in this column count as done")
	return cmd
}

// DeleteCmd returns the column delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <column-id>",
		Short: "Delete a column, moving its tasks to a fallback column",
		Long: `Delete a column. Its tasks move to --fallback, or to the first
remaining column when no fallback is given.`,
		Args: cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			ctx := cmd.Context()
			projectID, err := cli.ResolveProject(ctx, cmd, a)
			if err != nil {
				return err
			}
			fallback, _ := cmd.Flags().GetString("fallback")

			id := types.ColumnID(args[0])
			if err := a.ColumnService.DeleteColumn(ctx, columnservice.DeleteColumnRequest{
				ProjectID:  projectID,
				ID:         id,
				FallbackID: types.ColumnID(fallback),
			}); err != nil {
				return err
			}
			out.Message("✓ Column %s deleted", id)
			return nil
		}),
	}

	cli.AddProjectFlag(cmd)
	cmd.Flags().String("fallback", "", "Column that receives the deleted column's tasks")
	return cmd
}
