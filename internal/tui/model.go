// Package tui is the interactive kanban board. Columns and cards are dragged
// with the keyboard; every drop goes through the board coordinator, so the
// screen shows the new order at once and rolls back if the backend refuses.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// BoardFactory builds the coordinator the model drives. The model passes
// the options that route background changes and notices into the UI loop.
type BoardFactory func(opts ...board.Option) *board.Coordinator

// Option configures a Model
type Option func(*Model)

// WithEvents enables live refresh from the daemon
func WithEvents(ec events.EventPublisher) Option {
	return func(m *Model) {
		m.publisher = ec
	}
}

// WithTitle sets the header text, usually the project name
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// Model is the board's Bubble Tea model. Board state lives in the
// coordinator; the model keeps the cursor and a snapshot to draw from.
type Model struct {
	ctx   context.Context
	board *board.Coordinator
	drag  *board.Drag
	keys  keyMap
	help  help.Model
	style styles
	title string

	snap           board.Snapshot
	selectedColumn int
	selectedCard   int
	loaded         bool
	showHelp       bool
	width          int
	height         int
	notifications  *notifications

	// inbox carries coordinator callbacks into the UI loop
	inbox     *inbox
	publisher events.EventPublisher
	remote    <-chan events.Event
}

// New creates the board model. Nothing is fetched until Init runs.
func New(ctx context.Context, cfg *config.Config, build BoardFactory, opts ...Option) Model {
	in := newInbox()

	m := Model{
		ctx:           ctx,
		keys:          newKeyMap(cfg.KeyMappings),
		help:          help.New(),
		style:         newStyles(cfg.ColorScheme),
		notifications: &notifications{},
		inbox:         in,
	}
	for _, opt := range opts {
		opt(&m)
	}

	boardOpts := []board.Option{
		board.WithNotifier(board.NotifierFunc(in.notice)),
		board.WithOnChange(in.boardChanged),
	}
	if m.publisher != nil {
		boardOpts = append(boardOpts, board.WithPublisher(m.publisher))
	}
	m.board = build(boardOpts...)
	m.drag = m.board.Drag(ctx)
	if m.title == "" {
		m.title = string(m.board.ProjectID())
	}

	if m.publisher != nil {
		m.remote = m.listen()
	}
	return m
}

func (m Model) listen() <-chan events.Event {
	if err := m.publisher.Subscribe(m.board.ProjectID()); err != nil {
		slog.Debug("failed to subscribe to project events", "project_id", m.board.ProjectID(), "error", err)
		return nil
	}
	ch, err := m.publisher.Listen(m.ctx)
	if err != nil {
		slog.Debug("live refresh disabled", "error", err)
		return nil
	}
	return ch
}

// Init loads the board and starts listening for background updates
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refresh(), waitForUpdate(m.inbox)}
	if m.remote != nil {
		cmds = append(cmds, waitForEvent(m.remote))
	}
	return tea.Batch(cmds...)
}

// Board returns the coordinator the model drives
func (m Model) Board() *board.Coordinator {
	return m.board
}

// Notifications returns what the status line currently shows
func (m Model) Notifications() []Notification {
	return m.notifications.All()
}

// Selection returns the focused column and card index
func (m Model) Selection() (column, card int) {
	return m.selectedColumn, m.selectedCard
}

// Dragging reports the active gesture, DragIdle when none
func (m Model) Dragging() board.DragKind {
	return m.drag.Kind()
}

// ============================================================================
// SELECTION HELPERS
// ============================================================================

func (m Model) currentColumn() *models.Column {
	if m.selectedColumn < 0 || m.selectedColumn >= len(m.snap.Columns) {
		return nil
	}
	return &m.snap.Columns[m.selectedColumn]
}

func (m Model) cardsIn(id types.ColumnID) []models.Task {
	return m.snap.Cards[id]
}

func (m Model) currentCard() *models.Task {
	col := m.currentColumn()
	if col == nil {
		return nil
	}
	cards := m.cardsIn(col.ID)
	if m.selectedCard < 0 || m.selectedCard >= len(cards) {
		return nil
	}
	return &cards[m.selectedCard]
}

func (m Model) columnIndex(id types.ColumnID) int {
	for i, col := range m.snap.Columns {
		if col.ID == id {
			return i
		}
	}
	return -1
}

// sync takes a fresh snapshot and keeps the cursor in range
func (m *Model) sync() {
	m.snap = m.board.Snapshot()
	m.clampSelection()
}

func (m *Model) clampSelection() {
	if len(m.snap.Columns) == 0 {
		m.selectedColumn, m.selectedCard = 0, 0
		return
	}
	m.selectedColumn = min(max(m.selectedColumn, 0), len(m.snap.Columns)-1)
	cards := m.cardsIn(m.snap.Columns[m.selectedColumn].ID)
	m.selectedCard = min(max(m.selectedCard, 0), max(len(cards)-1, 0))
}

// follow moves the cursor onto a card wherever it is now shown
func (m *Model) follow(taskID types.TaskID) {
	for i, col := range m.snap.Columns {
		for j, card := range m.cardsIn(col.ID) {
			if card.ID == taskID {
				m.selectedColumn, m.selectedCard = i, j
				return
			}
		}
	}
	m.clampSelection()
}
