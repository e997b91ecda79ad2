package api

import (
	"context"
	"net/http"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

type commentInput struct {
	Body string `json:"body"`
}

func (c *Client) ListComments(ctx context.Context, taskID types.TaskID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/tasks/{id}/comments",
		path:   "/tasks/" + escape(taskID) + "/comments",
		out:    &comments,
	})
	return comments, err
}

func (c *Client) AddComment(ctx context.Context, taskID types.TaskID, body string) (*models.Comment, error) {
	var comment models.Comment
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/tasks/{id}/comments",
		path:   "/tasks/" + escape(taskID) + "/comments",
		body:   commentInput{Body: body},
		out:    &comment,
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, id types.CommentID) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/comments/{id}", path: "/comments/" + escape(id)})
}
