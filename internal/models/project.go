package models

import (
	"time"

	"github.com/thenoetrevino/tablero/internal/types"
)

// Project represents a container for kanban columns and tasks.
// Projects belong to exactly one team.
type Project struct {
	ID          types.ProjectID `json:"id"`
	TeamID      types.TeamID    `json:"teamId"`
	Name        string          `json:"name"`
	Key         string          `json:"key"` // Short uppercase prefix, e.g. "WEB"
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// GetID returns the project ID for quiet CLI output
func (p *Project) GetID() string {
	return string(p.ID)
}
