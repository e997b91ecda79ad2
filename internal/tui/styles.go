package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/models"
)

// styles are built once from the color scheme
type styles struct {
	scheme config.ColorScheme

	column        lipgloss.Style
	columnGrabbed lipgloss.Style
	columnTarget  lipgloss.Style
	columnTitle   lipgloss.Style
	card          lipgloss.Style
	cardSelected  lipgloss.Style
	cardGrabbed   lipgloss.Style
	empty         lipgloss.Style
	header        lipgloss.Style
	subtle        lipgloss.Style
	info          lipgloss.Style
	error         lipgloss.Style
}

func newStyles(scheme config.ColorScheme) styles {
	border := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(color)).
			Padding(0, 1)
	}

	return styles{
		scheme:        scheme,
		column:        border(scheme.ColumnBorder),
		columnGrabbed: border(scheme.GrabbedBorder).BorderStyle(lipgloss.ThickBorder()),
		columnTarget:  border(scheme.DropTarget).BorderStyle(lipgloss.DoubleBorder()),
		columnTitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(scheme.Title)),
		card:          border(scheme.CardBorder).Foreground(lipgloss.Color(scheme.Normal)),
		cardSelected: border(scheme.SelectedBorder).
			Foreground(lipgloss.Color(scheme.Normal)).
			Background(lipgloss.Color(scheme.SelectedBg)),
		cardGrabbed: border(scheme.GrabbedBorder).
			BorderStyle(lipgloss.ThickBorder()).
			Foreground(lipgloss.Color(scheme.Normal)),
		empty:  lipgloss.NewStyle().Foreground(lipgloss.Color(scheme.Subtle)).Italic(true),
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(scheme.Accent)),
		subtle: lipgloss.NewStyle().Foreground(lipgloss.Color(scheme.Subtle)),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color(scheme.InfoFg)).
			Background(lipgloss.Color(scheme.InfoBg)).
			Padding(0, 1),
		error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(scheme.ErrorFg)).
			Background(lipgloss.Color(scheme.ErrorBg)).
			Padding(0, 1),
	}
}

func (s styles) priority(p models.Priority) string {
	color := s.scheme.PriorityMedium
	switch p {
	case models.PriorityLow:
		color = s.scheme.PriorityLow
	case models.PriorityHigh:
		color = s.scheme.PriorityHigh
	case models.PriorityUrgent:
		color = s.scheme.PriorityUrgent
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(p.Label())
}
