package project

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// ListCmd returns the project list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a team's projects",
		Args:  cobra.NoArgs,
		RunE:  cli.Run(runList),
	}

	cmd.Flags().String("team", "", "Team ID (required)")
	if err := cmd.MarkFlagRequired("team"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	return cmd
}

func runList(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
	ctx := cmd.Context()
	teamID, _ := cmd.Flags().GetString("team")

	projects, err := a.ProjectService.ListProjects(ctx, types.TeamID(teamID))
	if err != nil {
		return err
	}

	current, _ := a.CurrentProject(ctx)
	return out.Success(projects, func(w io.Writer) {
		if len(projects) == 0 {
			fmt.Fprintln(w, "No projects found")
			return
		}
		fmt.Fprintf(w, "Found %d projects:\n\n", len(projects))
		for _, p := range projects {
			printProjectLine(w, p, p.ID == current)
		}
	})
}

func printProjectLine(w io.Writer, p *models.Project, current bool) {
	marker := " "
	if current {
		marker = "*"
	}
	fmt.Fprintf(w, "%s [%s] %s %s", marker, p.ID, p.Key, p.Name)
	if p.Description != "" {
		fmt.Fprintf(w, " - %s", p.Description)
	}
	fmt.Fprintln(w)
}
