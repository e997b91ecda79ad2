package task

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/cli/styles"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

type taskDetail struct {
	*models.Task
	Column   *models.Column    `json:"column,omitempty"`
	Comments []*models.Comment `json:"comments"`
}

// ShowCmd returns the task show subcommand
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show task details",
		Long:  "Display a task with its column, rendered description and comments.",
		Args:  cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			ctx := cmd.Context()

			t, err := a.TaskService.GetTask(ctx, types.TaskID(args[0]))
			if err != nil {
				return err
			}
			columns, err := a.ColumnService.ListColumns(ctx, t.ProjectID)
			if err != nil {
				return err
			}
			comments, err := a.TaskService.ListComments(ctx, t.ID)
			if err != nil {
				return err
			}

			detail := &taskDetail{Task: t, Comments: comments}
			if res := board.Resolve(t, columns); res.Kind != board.Unresolved {
				detail.Column = findColumn(columns, string(res.ColumnID))
			}
			return out.Success(detail, func(w io.Writer) {
				fmt.Fprintln(w, styles.RenderCard(renderDetail(detail)))
			})
		}),
	}
}

func renderDetail(d *taskDetail) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(d.Title))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render("ID: " + string(d.ID)))
	b.WriteString("\n\n")

	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", styles.LabelStyle.Render(label), styles.ValueStyle.Render(value))
	}
	if d.Column != nil {
		field("Column:", d.Column.Name)
	}
	fmt.Fprintf(&b, "%s %s\n", styles.LabelStyle.Render("Priority:"), styles.PriorityBadge(d.Priority))
	if d.AssigneeID != "" {
		field("Assignee:", string(d.AssigneeID))
	}
	if d.DueDate != nil {
		field("Due:", d.DueDate.Format("2006-01-02"))
	}
	if d.EstimatedHours != nil {
		field("Estimate:", cli.FormatHours(*d.EstimatedHours))
	}
	if d.ActualHours != nil {
		field("Actual:", cli.FormatHours(*d.ActualHours))
	}

	b.WriteString(styles.SectionStyle.Render("Description"))
	b.WriteString("\n")
	if d.Description == "" {
		b.WriteString(styles.SubtitleStyle.Render("No description"))
	} else {
		b.WriteString(renderMarkdown(d.Description, styles.CardWidth-6))
	}
	b.WriteString("\n")

	if len(d.Comments) > 0 {
		b.WriteString(styles.SectionStyle.Render(fmt.Sprintf("Comments (%d)", len(d.Comments))))
		b.WriteString("\n")
		for _, c := range d.Comments {
			fmt.Fprintf(&b, "%s %s\n  %s\n",
				styles.LabelStyle.Render(c.Author),
				styles.SubtitleStyle.Render(c.CreatedAt.Format("2006-01-02 15:04")),
				c.Body)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
