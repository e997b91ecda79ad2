package models

import (
	"time"

	"github.com/thenoetrevino/tablero/internal/types"
)

// Worklog records time spent on a task
type Worklog struct {
	ID        types.WorklogID `json:"id"`
	TaskID    types.TaskID    `json:"taskId"`
	TaskTitle string          `json:"taskTitle,omitempty"`
	UserID    types.UserID    `json:"userId"`
	UserName  string          `json:"userName,omitempty"`
	Hours     float64         `json:"hours"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// GetID returns the worklog ID for quiet CLI output
func (w *Worklog) GetID() string {
	return string(w.ID)
}
