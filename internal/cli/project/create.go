package project

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	projectservice "github.com/thenoetrevino/tablero/internal/services/project"
	"github.com/thenoetrevino/tablero/internal/types"
)

// CreateCmd returns the project create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new project",
		Long: `Create a new project in a team. The backend seeds it with default
columns.

Examples:
  # Key derived from the name (WA)
  tablero project create --team=team-1 --name="Web App"

  # Explicit key, selected as the current project afterwards
  tablero project create --team=team-1 --name="Web App" --key=WEB --use

  # Quiet mode for bash capture
  PROJECT_ID=$(tablero project create --team=team-1 --name="Web App" --quiet)
`,
		Args: cobra.NoArgs,
		RunE: cli.Run(runCreate),
	}

	cmd.Flags().String("team", "", "Team ID (required)")
	if err := cmd.MarkFlagRequired("team"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().String("name", "", "Project name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().String("key", "", "2-10 letter task prefix (default: derived from the name)")
	cmd.Flags().String("description", "", "Project description")
	cmd.Flags().Bool("use", false, "Select the new project as the current project")

	return cmd
}

func runCreate(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
	ctx := cmd.Context()
	teamID, _ := cmd.Flags().GetString("team")
	name, _ := cmd.Flags().GetString("name")
	key, _ := cmd.Flags().GetString("key")
	description, _ := cmd.Flags().GetString("description")
	use, _ := cmd.Flags().GetBool("use")

	p, err := a.ProjectService.CreateProject(ctx, projectservice.CreateProjectRequest{
		TeamID:      types.TeamID(teamID),
		Name:        name,
		Key:         key,
		Description: description,
	})
	if err != nil {
		return err
	}

	if use {
		if err := a.Session.SetCurrentProject(ctx, p.ID); err != nil {
			return err
		}
	}

	return out.Success(p, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Project '%s' created successfully (ID: %s, key: %s)\n", p.Name, p.ID, p.Key)
		if use {
			fmt.Fprintln(w, "  Now the current project")
		}
	})
}
