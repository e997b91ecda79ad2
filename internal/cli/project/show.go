package project

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/cli/styles"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

type projectDetail struct {
	*models.Project
	Columns []*models.Column `json:"columns"`
}

// ShowCmd returns the project show subcommand
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [project-id]",
		Short: "Show a project and its columns (default: current project)",
		Args:  cobra.MaximumNArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			ctx := cmd.Context()

			var id types.ProjectID
			if len(args) == 1 {
				id = types.ProjectID(args[0])
			} else {
				var err error
				if id, err = a.CurrentProject(ctx); err != nil {
					return err
				}
			}

			p, err := a.ProjectService.GetProject(ctx, id)
			if err != nil {
				return err
			}
			columns, err := a.ColumnService.ListColumns(ctx, id)
			if err != nil {
				return err
			}

			return out.Success(&projectDetail{Project: p, Columns: columns}, func(w io.Writer) {
				fmt.Fprintln(w, styles.TitleStyle.Render(fmt.Sprintf("%s  %s", p.Key, p.Name)))
				fmt.Fprintln(w, styles.SubtitleStyle.Render(fmt.Sprintf("ID: %s  Team: %s", p.ID, p.TeamID)))
				if p.Description != "" {
					fmt.Fprintf(w, "\n%s\n", p.Description)
				}
				fmt.Fprintln(w, styles.SectionStyle.Render("Columns"))
				for i, col := range columns {
					done := ""
					if col.IsCompleted {
						done = " (completed)"
					}
					fmt.Fprintf(w, "  %d. %s [%s]%s\n", i+1, col.Name, col.Slug, done)
				}
			})
		}),
	}
}
