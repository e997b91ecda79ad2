// Package board provides the command that opens the interactive board
package board

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/launcher"
)

// BoardCmd returns the board command
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive board",
		Long: `Open the kanban board for the current project (or --project).

Drag with the keyboard: space grabs a card, C grabs a column, h/l pick the
drop column, enter drops and esc cancels. Changes show at once and are
saved in the background; a failed save puts things back and says why.

Run tablero-daemon to see changes made from other terminals live.`,
		Args: cobra.NoArgs,
		RunE: cli.Run(runBoard),
	}

	cli.AddProjectFlag(cmd)
	cmd.Flags().Bool("inline", false, "Draw in the terminal buffer instead of the alternate screen")

	return cmd
}

func runBoard(cmd *cobra.Command, _ []string, a *app.App, _ *cli.OutputFormatter) error {
	ctx := cmd.Context()

	projectID, err := cli.ResolveProject(ctx, cmd, a)
	if err != nil {
		return err
	}
	p, err := a.ProjectService.GetProject(ctx, projectID)
	if err != nil {
		return err
	}

	opts := []tea.ProgramOption{
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	}
	if inline, _ := cmd.Flags().GetBool("inline"); !inline {
		opts = append(opts, tea.WithAltScreen())
	}

	return launcher.Launch(ctx, a, p.ID, fmt.Sprintf("%s  %s", p.Key, p.Name), opts...)
}
