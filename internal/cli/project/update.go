package project

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	projectservice "github.com/thenoetrevino/tablero/internal/services/project"
	"github.com/thenoetrevino/tablero/internal/types"
)

// UpdateCmd returns the project update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update a project's name or description",
		Args:  cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			p, err := a.ProjectService.UpdateProject(cmd.Context(), projectservice.UpdateProjectRequest{
				ID:          types.ProjectID(args[0]),
				Name:        cli.OptionalString(cmd, "name"),
				Description: cli.OptionalString(cmd, "description"),
			})
			if err != nil {
				return err
			}
			return out.Success(p, func(w io.Writer) {
				fmt.Fprintf(w, "✓ Project '%s' updated\n", p.Name)
			})
		}),
	}

	cmd.Flags().String("name", "", "New project name")
	cmd.Flags().String("description", "", "New description (empty clears it)")
	return cmd
}

// DeleteCmd returns the project delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project with all its columns and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			ctx := cmd.Context()
			id := types.ProjectID(args[0])

			if force, _ := cmd.Flags().GetBool("force"); !force {
				return cli.Usagef("Re-run with --force to confirm", "deleting project %s removes all of its tasks", id)
			}
			if err := a.ProjectService.DeleteProject(ctx, id); err != nil {
				return err
			}

			if current, err := a.Session.CurrentProject(ctx); err == nil && current == id {
				if err := a.Session.SetCurrentProject(ctx, ""); err != nil {
					return err
				}
			}
			out.Message("✓ Project %s deleted", id)
			return nil
		}),
	}

	cmd.Flags().Bool("force", false, "Confirm deletion")
	return cmd
}
