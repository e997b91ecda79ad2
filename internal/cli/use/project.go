package use

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/session"
	"github.com/thenoetrevino/tablero/internal/types"
)

// ProjectCmd returns the use project subcommand
func ProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project [project-id]",
		Short: "Select the current project",
		Long: `Select the project that commands use when --project is not given.
The selection is stored with your session and survives new shells.

  tablero use project proj-3      # Use project proj-3
  tablero use project --clear     # Forget the selection
  tablero use project --show      # Show the current project

TABLERO_PROJECT overrides the stored selection for a single shell.`,
		Args: cobra.MaximumNArgs(1),
		RunE: cli.Run(runUseProject),
	}

	cmd.Flags().Bool("clear", false, "Clear the current project")
	cmd.Flags().Bool("show", false, "Show the current project")

	return cmd
}

func runUseProject(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
	ctx := cmd.Context()
	clearFlag, _ := cmd.Flags().GetBool("clear")
	showFlag, _ := cmd.Flags().GetBool("show")

	switch {
	case showFlag:
		id, err := a.CurrentProject(ctx)
		if errors.Is(err, session.ErrNoProject) {
			out.Message("No project selected\nUse 'tablero use project <project-id>' to select one")
			return nil
		}
		if err != nil {
			return err
		}
		p, err := a.ProjectService.GetProject(ctx, id)
		if err != nil {
			return err
		}
		return out.Success(p, func(w io.Writer) {
			fmt.Fprintf(w, "Current project: [%s] %s %s\n", p.ID, p.Key, p.Name)
		})

	case clearFlag:
		if err := a.Session.SetCurrentProject(ctx, ""); err != nil {
			return err
		}
		out.Message("✓ Cleared the current project")
		return nil
	}

	if len(args) == 0 {
		return cli.Usagef("Usage: tablero use project <project-id>", "project ID required")
	}

	p, err := a.ProjectService.GetProject(ctx, types.ProjectID(args[0]))
	if err != nil {
		return err
	}
	if err := a.Session.SetCurrentProject(ctx, p.ID); err != nil {
		return err
	}
	return out.Success(p, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Now using project %s: %s\n", p.ID, p.Name)
	})
}
