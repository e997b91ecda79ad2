// Package launcher runs the interactive board for a project
package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/tui"
	"github.com/thenoetrevino/tablero/internal/types"
)

// drainTimeout bounds how long quitting waits for unsaved drops
const drainTimeout = 5 * time.Second

// Launch shows the board until the user quits or ctx is cancelled. Drops
// still waiting on the backend get a short grace period to persist.
func Launch(ctx context.Context, a *app.App, projectID types.ProjectID, title string, opts ...tea.ProgramOption) error {
	model := tui.New(ctx, a.Config,
		func(boardOpts ...board.Option) *board.Coordinator {
			return a.NewBoard(projectID, boardOpts...)
		},
		tui.WithEvents(a.Events),
		tui.WithTitle(title),
	)

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(model, opts...)

	slog.Info("board started", "project_id", projectID)
	_, err := p.Run()
	drain(model.Board())

	if err != nil {
		if ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
			slog.Info("shutdown signal received, board closed")
			return nil
		}
		return fmt.Errorf("error running board: %w", err)
	}
	return nil
}

func drain(coord *board.Coordinator) {
	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	if err := coord.Settle(drainCtx); err != nil {
		slog.Warn("quit before every change was saved", "project_id", coord.ProjectID(), "error", err)
	}
}
