package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/thenoetrevino/tablero/internal/config"
)

// keyMap holds the board bindings built from the user's key mappings. Arrow
// keys always work alongside the configured navigation keys.
type keyMap struct {
	PrevColumn key.Binding
	NextColumn key.Binding
	PrevTask   key.Binding
	NextTask   key.Binding
	GrabCard   key.Binding
	GrabColumn key.Binding
	Drop       key.Binding
	Cancel     key.Binding
	Refresh    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newKeyMap(km config.KeyMappings) keyMap {
	return keyMap{
		PrevColumn: binding("column left", km.PrevColumn, "left"),
		NextColumn: binding("column right", km.NextColumn, "right"),
		PrevTask:   binding("card up", km.PrevTask, "up"),
		NextTask:   binding("card down", km.NextTask, "down"),
		GrabCard:   binding("grab card", km.GrabCard),
		GrabColumn: binding("grab column", km.GrabColumn),
		Drop:       binding("drop", km.Drop),
		Cancel:     binding("cancel drag", km.Cancel),
		Refresh:    binding("refresh", km.Refresh),
		Help:       binding("toggle help", km.ShowHelp),
		Quit:       binding("quit", km.Quit, "ctrl+c"),
	}
}

func binding(desc string, keys ...string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(keyLabel(keys[0]), desc),
	)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.GrabCard, k.GrabColumn, k.Drop, k.Cancel, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevColumn, k.NextColumn, k.PrevTask, k.NextTask},
		{k.GrabCard, k.GrabColumn, k.Drop, k.Cancel},
		{k.Refresh, k.Help, k.Quit},
	}
}
