package models

import (
	"time"

	"github.com/thenoetrevino/tablero/internal/types"
)

// Task represents a single card on the kanban board
type Task struct {
	ID          types.TaskID    `json:"id"`
	ProjectID   types.ProjectID `json:"projectId"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Priority    Priority        `json:"priority"`

	// StatusID is the column the task is assigned to. Empty for tasks created
	// before columns existed; those still carry the legacy Status value.
	StatusID types.ColumnID `json:"statusId,omitempty"`
	Status   LegacyStatus   `json:"status,omitempty"`

	AssigneeID     types.UserID `json:"assigneeId,omitempty"`
	DueDate        *time.Time   `json:"dueDate,omitempty"`
	EstimatedHours *float64     `json:"estimatedHours,omitempty"`
	ActualHours    *float64     `json:"actualHours,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// GetID returns the task ID for quiet CLI output
func (t *Task) GetID() string {
	return string(t.ID)
}
