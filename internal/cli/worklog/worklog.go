// Package worklog holds the `tablero worklog` commands
package worklog

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	worklogservice "github.com/thenoetrevino/tablero/internal/services/worklog"
	"github.com/thenoetrevino/tablero/internal/types"
)

// WorklogCmd returns the worklog parent command
func WorklogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "worklog",
		Aliases: []string{"time"},
		Short:   "Log and report time spent on tasks",
	}
	cli.AddOutputFlags(cmd)

	cmd.AddCommand(AddCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(ReportCmd())

	return cmd
}

// AddCmd returns the worklog add subcommand
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <task-id>",
		Short: "Log hours on a task",
		Long: `Log hours on a task for yourself.

Examples:
  tablero worklog add task-12 --hours=1.5
  tablero worklog add task-12 --hours=3 --date=2026-02-27 --note="code review"
`,
		Args: cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			hours, _ := cmd.Flags().GetFloat64("hours")
			note, _ := cmd.Flags().GetString("note")
			dateFlag, _ := cmd.Flags().GetString("date")

			date, err := cli.ParseDate(dateFlag)
			if err != nil {
				return err
			}

			entry, err := a.WorklogService.AddWorklog(cmd.Context(), worklogservice.AddWorklogRequest{
				TaskID: types.TaskID(args[0]),
				Hours:  hours,
				Date:   date,
				Note:   note,
			})
			if err != nil {
				return err
			}
			return out.Success(entry, func(w io.Writer) {
				fmt.Fprintf(w, "✓ Logged %s on %s (ID: %s)\n", cli.FormatHours(entry.Hours), entry.Date.Format("2006-01-02"), entry.ID)
			})
		}),
	}

	cmd.Flags().Float64("hours", 0, "Hours spent (required)")
	if err := cmd.MarkFlagRequired("hours"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().String("date", "", "Day the work was done, YYYY-MM-DD (default: today)")
	cmd.Flags().String("note", "", "What the time was spent on")
	return cmd
}

// ListCmd returns the worklog list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's worklog entries",
		Args:  cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
			req, err := listRequest(cmd, a)
			if err != nil {
				return err
			}
			if user, _ := cmd.Flags().GetString("user"); user != "" {
				req.UserID = types.UserID(user)
			}

			logs, err := a.WorklogService.ListWorklogs(cmd.Context(), req)
			if err != nil {
				return err
			}
			return out.Success(logs, func(w io.Writer) {
				if len(logs) == 0 {
					fmt.Fprintln(w, "No worklog entries found")
					return
				}
				fmt.Fprintf(w, "Found %d entries:\n\n", len(logs))
				for _, wl := range logs {
					fmt.Fprintf(w, "  [%s] %s  %-6s %s - %s", wl.ID, wl.Date.Format("2006-01-02"), cli.FormatHours(wl.Hours), wl.UserName, wl.TaskTitle)
					if wl.Note != "" {
						fmt.Fprintf(w, " (%s)", wl.Note)
					}
					fmt.Fprintln(w)
				}
			})
		}),
	}

	addRangeFlags(cmd)
	cmd.Flags().String("user", "", "Only entries by this user ID")
	return cmd
}

// DeleteCmd returns the worklog delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <worklog-id>",
		Short: "Delete a worklog entry",
		Args:  cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			ctx := cmd.Context()
			// The project only scopes the refresh event
			projectID, _ := cli.ResolveProject(ctx, cmd, a)

			id := types.WorklogID(args[0])
			if err := a.WorklogService.DeleteWorklog(ctx, projectID, id); err != nil {
				return err
			}
			out.Message("✓ Worklog entry %s deleted", id)
			return nil
		}),
	}
	cli.AddProjectFlag(cmd)
	return cmd
}

func addRangeFlags(cmd *cobra.Command) {
	cli.AddProjectFlag(cmd)
	cmd.Flags().String("from", "", "First day, YYYY-MM-DD (default: open)")
	cmd.Flags().String("to", "", "Last day, YYYY-MM-DD (default: open)")
}

func listRequest(cmd *cobra.Command, a *app.App) (worklogservice.ListRequest, error) {
	projectID, err := cli.ResolveProject(cmd.Context(), cmd, a)
	if err != nil {
		return worklogservice.ListRequest{}, err
	}
	fromFlag, _ := cmd.Flags().GetString("from")
	toFlag, _ := cmd.Flags().GetString("to")

	from, err := cli.ParseDate(fromFlag)
	if err != nil {
		return worklogservice.ListRequest{}, err
	}
	to, err := cli.ParseDate(toFlag)
	if err != nil {
		return worklogservice.ListRequest{}, err
	}
	return worklogservice.ListRequest{ProjectID: projectID, From: from, To: to}, nil
}
