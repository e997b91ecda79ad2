package tui

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/events"
)

// Update handles key presses and background board messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case inboxMsg:
		for _, n := range msg.notices {
			m.notifications.Add(LevelError, n.Message())
		}
		if msg.folded > 0 {
			m.notifications.Add(LevelError, fmt.Sprintf("%d earlier background errors not shown", msg.folded))
		}
		if msg.changed || len(msg.notices) > 0 {
			m.sync()
		}
		return m, waitForUpdate(m.inbox)

	case refreshedMsg:
		if msg.err != nil {
			slog.Error("failed to refresh board", "project_id", m.board.ProjectID(), "error", msg.err)
			m.notifications.Add(LevelError, board.Notice{Action: board.ActionRefresh, Err: msg.err}.Message())
			return m, nil
		}
		m.loaded = true
		m.sync()
		return m, nil

	case remoteEventMsg:
		return m.handleRemoteEvent(msg.event)

	case remoteClosedMsg:
		m.remote = nil
		m.notifications.Add(LevelInfo, "Live refresh stopped, press r to reload")
		return m, nil
	}
	return m, nil
}

func (m Model) handleRemoteEvent(event events.Event) (tea.Model, tea.Cmd) {
	next := waitForEvent(m.remote)
	if event.Type != events.EventProjectChanged {
		return m, next
	}
	if !event.ProjectID.IsZero() && event.ProjectID != m.board.ProjectID() {
		return m, next
	}
	slog.Debug("project changed remotely, refreshing", "project_id", m.board.ProjectID(), "seq", event.SequenceID)
	return m, tea.Batch(m.refresh(), next)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notifications.Clear()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.Cancel):
		m.drag.Cancel()
		return m, nil
	case key.Matches(msg, m.keys.Drop):
		return m.handleDrop()
	case key.Matches(msg, m.keys.GrabCard):
		return m.handleGrabCard()
	case key.Matches(msg, m.keys.GrabColumn):
		return m.handleGrabColumn()
	case key.Matches(msg, m.keys.PrevColumn):
		return m.handleHorizontal(-1)
	case key.Matches(msg, m.keys.NextColumn):
		return m.handleHorizontal(1)
	case key.Matches(msg, m.keys.PrevTask):
		return m.handleVertical(-1)
	case key.Matches(msg, m.keys.NextTask):
		return m.handleVertical(1)
	}
	return m, nil
}

// handleHorizontal moves the cursor, or the drop target while dragging
func (m Model) handleHorizontal(delta int) (tea.Model, tea.Cmd) {
	if len(m.snap.Columns) == 0 {
		return m, nil
	}
	if !m.drag.Active() {
		m.selectedColumn = min(max(m.selectedColumn+delta, 0), len(m.snap.Columns)-1)
		m.selectedCard = 0
		m.clampSelection()
		return m, nil
	}

	idx := m.targetIndex() + delta
	idx = min(max(idx, 0), len(m.snap.Columns)-1)
	switch m.drag.Kind() {
	case board.DragColumn:
		m.drag.Over(board.Target{Index: idx})
	case board.DragCard:
		m.drag.Over(board.Target{Index: idx, ColumnID: m.snap.Columns[idx].ID})
	}
	return m, nil
}

// targetIndex is the column the current drag would drop on
func (m Model) targetIndex() int {
	target := m.drag.Target()
	if !target.ColumnID.IsZero() {
		if idx := m.columnIndex(target.ColumnID); idx >= 0 {
			return idx
		}
	}
	if target.Index >= 0 {
		return target.Index
	}
	return m.drag.Source()
}

func (m Model) handleVertical(delta int) (tea.Model, tea.Cmd) {
	if m.drag.Active() {
		return m, nil
	}
	col := m.currentColumn()
	if col == nil {
		return m, nil
	}
	cards := m.cardsIn(col.ID)
	if len(cards) == 0 {
		return m, nil
	}
	m.selectedCard = min(max(m.selectedCard+delta, 0), len(cards)-1)
	return m, nil
}

func (m Model) handleGrabCard() (tea.Model, tea.Cmd) {
	card := m.currentCard()
	if card == nil {
		m.notifications.Add(LevelInfo, "No card selected")
		return m, nil
	}
	col := m.currentColumn()
	if err := m.drag.BeginCard(card.ID, m.selectedColumn, col.ID); err != nil {
		m.notifications.Add(LevelError, err.Error())
	}
	return m, nil
}

func (m Model) handleGrabColumn() (tea.Model, tea.Cmd) {
	if m.currentColumn() == nil {
		return m, nil
	}
	if err := m.drag.BeginColumn(m.selectedColumn); err != nil {
		m.notifications.Add(LevelError, err.Error())
	}
	return m, nil
}

// handleDrop dispatches the gesture. The coordinator applies the change
// before returning, so the snapshot taken here already shows it.
func (m Model) handleDrop() (tea.Model, tea.Cmd) {
	if !m.drag.Active() {
		return m, nil
	}
	kind, cardID, targetIdx := m.drag.Kind(), m.drag.Card(), m.targetIndex()

	if err := m.drag.Drop(); err != nil {
		slog.Warn("drop rejected", "kind", kind, "error", err)
		m.notifications.Add(LevelError, fmt.Sprintf("Could not drop %s: %v", kind, err))
		m.sync()
		return m, nil
	}

	m.sync()
	switch kind {
	case board.DragColumn:
		m.selectedColumn = targetIdx
		m.clampSelection()
	case board.DragCard:
		m.follow(cardID)
	}
	return m, nil
}
