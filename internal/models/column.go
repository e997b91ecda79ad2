package models

import "github.com/thenoetrevino/tablero/internal/types"

// Column represents a kanban board column (e.g., "Todo", "In Progress", "Done").
// The backend calls this entity a status. Position defines left-to-right order
// within a project.
type Column struct {
	ID          types.ColumnID  `json:"id"`
	ProjectID   types.ProjectID `json:"projectId"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Color       string          `json:"color,omitempty"` // Hex color code (e.g., "#7D56F4")
	Position    int             `json:"position"`
	IsCompleted bool            `json:"isCompleted"` // Tasks here count as done
}

// GetID returns the column ID for quiet CLI output
func (c *Column) GetID() string {
	return string(c.ID)
}
