package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Level is the severity of a notification
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notification is a message shown under the board until the next key press
type Notification struct {
	Level   Level
	Message string
}

// notifications keeps what the status line shows
type notifications struct {
	items []Notification
}

func (n *notifications) Add(level Level, message string) {
	n.items = append(n.items, Notification{Level: level, Message: message})
}

func (n *notifications) Clear() {
	n.items = nil
}

func (n *notifications) All() []Notification {
	return n.items
}

func (s styles) renderNotification(n Notification) string {
	icon, style := "🔔", s.info
	if n.Level == LevelError {
		icon, style = "✕", s.error
	}
	return style.Render(icon + " " + n.Message)
}

func (s styles) renderNotifications(all []Notification) string {
	if len(all) == 0 {
		return ""
	}
	lines := make([]string, len(all))
	for i, n := range all {
		lines[i] = s.renderNotification(n)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
