package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/thenoetrevino/tablero/internal/events"
)

// refreshedMsg is the result of an explicit refetch
type refreshedMsg struct {
	err error
}

// remoteEventMsg is a project change relayed by the daemon
type remoteEventMsg struct {
	event events.Event
}

// remoteClosedMsg means the daemon stream ended
type remoteClosedMsg struct{}

func waitForEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return remoteClosedMsg{}
		}
		return remoteEventMsg{event: event}
	}
}

func (m Model) refresh() tea.Cmd {
	coord, ctx := m.board, m.ctx
	return func() tea.Msg {
		return refreshedMsg{err: coord.Refresh(ctx)}
	}
}
