package models

import (
	"time"

	"github.com/thenoetrevino/tablero/internal/types"
)

// Comment represents a note/comment on a task
type Comment struct {
	ID        types.CommentID `json:"id"`
	TaskID    types.TaskID    `json:"taskId"`
	AuthorID  types.UserID    `json:"authorId"`
	Author    string          `json:"author"`
	Body      string          `json:"body"`
	CreatedAt time.Time       `json:"createdAt"`
}

// GetID returns the comment ID for quiet CLI output
func (c *Comment) GetID() string {
	return string(c.ID)
}
