package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/thenoetrevino/tablero/internal/board"
)

// maxQueuedNotices bounds the failures waiting for the UI. Past it the
// oldest are folded into a count.
const maxQueuedNotices = 8

// inbox collects coordinator callbacks until the UI loop takes them.
// Writers never block: board changes collapse into one flag and notices
// keep the newest maxQueuedNotices.
type inbox struct {
	mu      sync.Mutex
	changed bool
	notices []board.Notice
	folded  int
	ready   chan struct{}
}

func newInbox() *inbox {
	return &inbox{ready: make(chan struct{}, 1)}
}

func (b *inbox) boardChanged() {
	b.mu.Lock()
	b.changed = true
	b.mu.Unlock()
	b.signal()
}

func (b *inbox) notice(n board.Notice) {
	b.mu.Lock()
	if len(b.notices) == maxQueuedNotices {
		b.notices = b.notices[1:]
		b.folded++
	}
	b.notices = append(b.notices, n)
	b.mu.Unlock()
	b.signal()
}

func (b *inbox) signal() {
	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// take empties the inbox
func (b *inbox) take() inboxMsg {
	b.mu.Lock()
	defer b.mu.Unlock()
	msg := inboxMsg{changed: b.changed, notices: b.notices, folded: b.folded}
	b.changed, b.notices, b.folded = false, nil, 0
	return msg
}

// inboxMsg is everything the coordinator reported since the last take
type inboxMsg struct {
	changed bool
	notices []board.Notice
	// folded counts notices that did not fit
	folded int
}

func waitForUpdate(b *inbox) tea.Cmd {
	return func() tea.Msg {
		<-b.ready
		return b.take()
	}
}
