// Package team holds the `tablero team` commands
package team

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

// TeamCmd returns the team parent command
func TeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams and their members",
	}
	cli.AddOutputFlags(cmd)

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(RenameCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(MemberCmd())

	return cmd
}

// ListCmd returns the team list subcommand
func ListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your teams",
		Args:  cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
			teams, err := a.TeamService.ListTeams(cmd.Context())
			if err != nil {
				return err
			}
			return out.Success(teams, func(w io.Writer) {
				if len(teams) == 0 {
					fmt.Fprintln(w, "No teams found")
					return
				}
				fmt.Fprintf(w, "Found %d teams:\n\n", len(teams))
				for _, t := range teams {
					fmt.Fprintf(w, "  [%s] %s\n", t.ID, t.Name)
				}
			})
		}),
	}
}

type teamDetail struct {
	*models.Team
	Members []*models.TeamMember `json:"members"`
}

// ShowCmd returns the team show subcommand
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <team-id>",
		Short: "Show a team and its members",
		Args:  cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			ctx := cmd.Context()
			id := types.TeamID(args[0])

			t, err := a.TeamService.GetTeam(ctx, id)
			if err != nil {
				return err
			}
			members, err := a.TeamService.ListMembers(ctx, id)
			if err != nil {
				return err
			}

			return out.Success(&teamDetail{Team: t, Members: members}, func(w io.Writer) {
				fmt.Fprintf(w, "%s (ID: %s)\n\n", t.Name, t.ID)
				printMembers(w, members)
			})
		}),
	}
}

// CreateCmd returns the team create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a team",
		Long: `Create a new team. You become its owner.

Examples:
  tablero team create --name="Platform"

  # Quiet mode for bash capture
  TEAM_ID=$(tablero team create --name="Platform" --quiet)
`,
		Args: cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
			name, _ := cmd.Flags().GetString("name")
			t, err := a.TeamService.CreateTeam(cmd.Context(), name)
			if err != nil {
				return err
			}
			return out.Success(t, func(w io.Writer) {
				fmt.Fprintf(w, "✓ Team '%s' created successfully (ID: %s)\n", t.Name, t.ID)
			})
		}),
	}

	cmd.Flags().String("name", "", "Team name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	return cmd
}

// RenameCmd returns the team rename subcommand
func RenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <team-id>",
		Short: "Rename a team",
		Args:  cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			name, _ := cmd.Flags().GetString("name")
			t, err := a.TeamService.RenameTeam(cmd.Context(), types.TeamID(args[0]), name)
			if err != nil {
				return err
			}
			return out.Success(t, func(w io.Writer) {
				fmt.Fprintf(w, "✓ Team renamed to '%s'\n", t.Name)
			})
		}),
	}

	cmd.Flags().String("name", "", "New team name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	return cmd
}

// DeleteCmd returns the team delete subcommand
func DeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <team-id>",
		Short: "Delete a team and all of its projects",
		Args:  cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			id := types.TeamID(args[0])
			if err := a.TeamService.DeleteTeam(cmd.Context(), id); err != nil {
				return err
			}
			out.Message("✓ Team %s deleted", id)
			return nil
		}),
	}
}
