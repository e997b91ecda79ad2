package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/models"
)

const (
	defaultColumnWidth = 24
	minColumnWidth     = 16
	maxColumnWidth     = 36
)

// View renders the board
func (m Model) View() string {
	if !m.loaded {
		return "Loading board..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if len(m.snap.Columns) == 0 {
		b.WriteString(m.style.empty.Render("No columns. Create one with `tablero column create --name <name>`."))
	} else {
		b.WriteString(m.renderColumns())
	}

	if m.snap.Orphans > 0 {
		b.WriteString("\n")
		b.WriteString(m.style.subtle.Render(fmt.Sprintf("%d card(s) have no column to show under", m.snap.Orphans)))
	}
	if n := m.style.renderNotifications(m.notifications.All()); n != "" {
		b.WriteString("\n")
		b.WriteString(n)
	}

	m.help.ShowAll = m.showHelp
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader() string {
	header := m.style.header.Render(m.title)
	if m.snap.InFlight > 0 {
		header += m.style.subtle.Render(fmt.Sprintf("  ⟳ saving (%d)", m.snap.InFlight))
	}
	if status := m.dragStatus(); status != "" {
		header += "  " + status
	}
	return header
}

func (m Model) dragStatus() string {
	if !m.drag.Active() {
		return ""
	}
	idx := m.targetIndex()
	if idx < 0 || idx >= len(m.snap.Columns) {
		return ""
	}
	target := m.snap.Columns[idx].Name

	switch m.drag.Kind() {
	case board.DragColumn:
		source := m.drag.Source()
		if source < 0 || source >= len(m.snap.Columns) {
			return ""
		}
		return fmt.Sprintf("moving column %s to position %d", m.snap.Columns[source].Name, idx+1)
	case board.DragCard:
		return fmt.Sprintf("moving card to %s", target)
	}
	return ""
}

func (m Model) columnWidth() int {
	if m.width == 0 || len(m.snap.Columns) == 0 {
		return defaultColumnWidth
	}
	// 2 for the column border
	w := m.width/len(m.snap.Columns) - 2
	return min(max(w, minColumnWidth), maxColumnWidth)
}

func (m Model) renderColumns() string {
	width := m.columnWidth()
	rendered := make([]string, len(m.snap.Columns))
	for i, col := range m.snap.Columns {
		rendered[i] = m.renderColumn(i, col, width)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) columnStyle(i int) lipgloss.Style {
	if !m.drag.Active() {
		return m.style.column
	}
	if i == m.targetIndex() {
		return m.style.columnTarget
	}
	if m.drag.Kind() == board.DragColumn && i == m.drag.Source() {
		return m.style.columnGrabbed
	}
	return m.style.column
}

func (m Model) renderColumn(i int, col models.Column, width int) string {
	cards := m.cardsIn(col.ID)

	title := fmt.Sprintf("%s (%d)", col.Name, len(cards))
	if col.IsCompleted {
		title += " ✓"
	}
	parts := []string{m.style.columnTitle.Render(title)}

	if len(cards) == 0 {
		parts = append(parts, m.style.empty.Render("No tasks"))
	}
	// column padding plus card border
	cardWidth := max(width-4, 1)
	for j, card := range cards {
		parts = append(parts, m.cardStyle(i, j, card).Width(cardWidth).Render(m.renderCard(card)))
	}

	return m.columnStyle(i).Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) cardStyle(col, row int, card models.Task) lipgloss.Style {
	switch {
	case m.drag.Kind() == board.DragCard && card.ID == m.drag.Card():
		return m.style.cardGrabbed
	case !m.drag.Active() && col == m.selectedColumn && row == m.selectedCard:
		return m.style.cardSelected
	}
	return m.style.card
}

func (m Model) renderCard(card models.Task) string {
	return card.Title + "\n" + m.style.priority(card.Priority)
}
