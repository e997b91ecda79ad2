package api

import (
	"context"
	"net/http"
	"time"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// TaskInput creates a task
type TaskInput struct {
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Priority       models.Priority `json:"priority"`
	StatusID       types.ColumnID  `json:"statusId,omitempty"`
	AssigneeID     types.UserID    `json:"assigneeId,omitempty"`
	DueDate        *time.Time      `json:"dueDate,omitempty"`
	EstimatedHours *float64        `json:"estimatedHours,omitempty"`
}

// TaskPatch updates task detail fields; nil fields are left alone.
// Column moves go through UpdateTaskStatus.
type TaskPatch struct {
	Title          *string          `json:"title,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Priority       *models.Priority `json:"priority,omitempty"`
	AssigneeID     *types.UserID    `json:"assigneeId,omitempty"`
	DueDate        *time.Time       `json:"dueDate,omitempty"`
	EstimatedHours *float64         `json:"estimatedHours,omitempty"`
	ActualHours    *float64         `json:"actualHours,omitempty"`
}

type taskStatus struct {
	StatusID types.ColumnID `json:"statusId"`
}

// ListTasks returns every task in the project
func (c *Client) ListTasks(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error) {
	var tasks []*models.Task
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/projects/{id}/tasks",
		path:   "/projects/" + escape(projectID) + "/tasks",
		out:    &tasks,
	})
	return tasks, err
}

func (c *Client) GetTask(ctx context.Context, id types.TaskID) (*models.Task, error) {
	var task models.Task
	err := c.do(ctx, call{method: http.MethodGet, route: "/tasks/{id}", path: "/tasks/" + escape(id), out: &task})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, projectID types.ProjectID, in TaskInput) (*models.Task, error) {
	var task models.Task
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/projects/{id}/tasks",
		path:   "/projects/" + escape(projectID) + "/tasks",
		body:   in,
		out:    &task,
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id types.TaskID, in TaskPatch) (*models.Task, error) {
	var task models.Task
	err := c.do(ctx, call{method: http.MethodPatch, route: "/tasks/{id}", path: "/tasks/" + escape(id), body: in, out: &task})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTaskStatus moves a single task to another column
func (c *Client) UpdateTaskStatus(ctx context.Context, id types.TaskID, columnID types.ColumnID) error {
	return c.do(ctx, call{
		method: http.MethodPatch,
		route:  "/tasks/{id}/status",
		path:   "/tasks/" + escape(id) + "/status",
		body:   taskStatus{StatusID: columnID},
	})
}

func (c *Client) DeleteTask(ctx context.Context, id types.TaskID) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/tasks/{id}", path: "/tasks/" + escape(id)})
}
