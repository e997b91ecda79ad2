package team

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/models"
	teamservice "github.com/thenoetrevino/tablero/internal/services/team"
	"github.com/thenoetrevino/tablero/internal/types"
)

// MemberCmd returns the team member parent command
func MemberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage team members",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <team-id>",
		Short: "List the members of a team",
		Args:  cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			members, err := a.TeamService.ListMembers(cmd.Context(), types.TeamID(args[0]))
			if err != nil {
				return err
			}
			return out.Success(members, func(w io.Writer) {
				printMembers(w, members)
			})
		}),
	})
	cmd.AddCommand(addMemberCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <team-id> <user-id>",
		Short: "Remove a member from a team",
		Args:  cobra.ExactArgs(2),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			if err := a.TeamService.RemoveMember(cmd.Context(), types.TeamID(args[0]), types.UserID(args[1])); err != nil {
				return err
			}
			out.Message("✓ Removed %s from team %s", args[1], args[0])
			return nil
		}),
	})

	return cmd
}

func addMemberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <team-id>",
		Short: "Invite a user to a team",
		Long: `Add a user to a team by email.

Examples:
  tablero team member add team-1 --email=ana@example.com
  tablero team member add team-1 --email=ana@example.com --role=admin
`,
		Args: cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			email, _ := cmd.Flags().GetString("email")
			role, _ := cmd.Flags().GetString("role")

			member, err := a.TeamService.AddMember(cmd.Context(), teamservice.AddMemberRequest{
				TeamID: types.TeamID(args[0]),
				Email:  email,
				Role:   role,
			})
			if err != nil {
				return err
			}
			return out.Success(member, func(w io.Writer) {
				fmt.Fprintf(w, "✓ Added %s as %s\n", member.Email, member.Role)
			})
		}),
	}

	cmd.Flags().String("email", "", "Email of the user to add (required)")
	if err := cmd.MarkFlagRequired("email"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().String("role", "member", "Role: admin or member")
	return cmd
}

func printMembers(w io.Writer, members []*models.TeamMember) {
	if len(members) == 0 {
		fmt.Fprintln(w, "No members")
		return
	}
	fmt.Fprintf(w, "%d members:\n", len(members))
	for _, m := range members {
		name := m.DisplayName
		if name == "" {
			name = m.Email
		}
		fmt.Fprintf(w, "  [%s] %s <%s> %s\n", m.UserID, name, m.Email, m.Role)
	}
}
