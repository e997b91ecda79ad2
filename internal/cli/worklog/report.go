package worklog

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/cli/styles"
	worklogservice "github.com/thenoetrevino/tablero/internal/services/worklog"
)

// ReportCmd returns the worklog report subcommand
func ReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize hours per user and per task",
		Long: `Summarize a project's logged hours per user and per task over a date
range, largest first.

Examples:
  tablero worklog report --from=2026-02-01 --to=2026-02-28
  tablero worklog report --json
`,
		Args: cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
			req, err := listRequest(cmd, a)
			if err != nil {
				return err
			}
			report, err := a.WorklogService.Report(cmd.Context(), req)
			if err != nil {
				return err
			}
			return out.Success(report, func(w io.Writer) {
				printReport(w, report)
			})
		}),
	}
	addRangeFlags(cmd)
	return cmd
}

func printReport(w io.Writer, r *worklogservice.Report) {
	period := "all time"
	switch {
	case r.From != nil && r.To != nil:
		period = r.From.Format("2006-01-02") + " to " + r.To.Format("2006-01-02")
	case r.From != nil:
		period = "since " + r.From.Format("2006-01-02")
	case r.To != nil:
		period = "until " + r.To.Format("2006-01-02")
	}

	fmt.Fprintln(w, styles.TitleStyle.Render("Time report"))
	fmt.Fprintln(w, styles.SubtitleStyle.Render(fmt.Sprintf("%s, %d entries, %s total", period, r.Entries, cli.FormatHours(r.TotalHours))))
	if r.Entries == 0 {
		return
	}

	fmt.Fprintln(w, styles.SectionStyle.Render("By user"))
	for _, u := range r.ByUser {
		fmt.Fprintf(w, "  %-8s %s\n", cli.FormatHours(u.Hours), u.Name)
	}
	fmt.Fprintln(w, styles.SectionStyle.Render("By task"))
	for _, t := range r.ByTask {
		fmt.Fprintf(w, "  %-8s [%s] %s\n", cli.FormatHours(t.Hours), t.TaskID, t.Title)
	}
}
