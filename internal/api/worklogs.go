package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// DateLayout is the wire format for worklog dates and range filters
const DateLayout = "2006-01-02"

// WorklogInput logs time against a task
type WorklogInput struct {
	Hours float64   `json:"hours"`
	Date  time.Time `json:"date"`
	Note  string    `json:"note,omitempty"`
}

// WorklogFilter narrows a project's worklogs; zero values are ignored
type WorklogFilter struct {
	From   time.Time
	To     time.Time
	UserID types.UserID
}

func (f WorklogFilter) values() url.Values {
	q := url.Values{}
	if !f.From.IsZero() {
		q.Set("from", f.From.Format(DateLayout))
	}
	if !f.To.IsZero() {
		q.Set("to", f.To.Format(DateLayout))
	}
	if f.UserID != "" {
		q.Set("userId", f.UserID.String())
	}
	return q
}

func (c *Client) ListWorklogs(ctx context.Context, projectID types.ProjectID, filter WorklogFilter) ([]*models.Worklog, error) {
	var logs []*models.Worklog
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/projects/{id}/worklogs",
		path:   "/projects/" + escape(projectID) + "/worklogs",
		query:  filter.values(),
		out:    &logs,
	})
	return logs, err
}

func (c *Client) AddWorklog(ctx context.Context, taskID types.TaskID, in WorklogInput) (*models.Worklog, error) {
	var log models.Worklog
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/tasks/{id}/worklogs",
		path:   "/tasks/" + escape(taskID) + "/worklogs",
		body:   in,
		out:    &log,
	})
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (c *Client) DeleteWorklog(ctx context.Context, id types.WorklogID) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/worklogs/{id}", path: "/worklogs/" + escape(id)})
}
