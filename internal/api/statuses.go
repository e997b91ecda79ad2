package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// StatusInput creates a board column
type StatusInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Color       string `json:"color,omitempty"`
	IsCompleted bool   `json:"isCompleted"`
}

// StatusPatch updates a board column; nil fields are left alone
type StatusPatch struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Color       *string `json:"color,omitempty"`
	IsCompleted *bool   `json:"isCompleted,omitempty"`
}

type statusOrder struct {
	StatusIDs []types.ColumnID `json:"statusIds"`
}

// ListStatuses returns the project's columns in board order
func (c *Client) ListStatuses(ctx context.Context, projectID types.ProjectID) ([]*models.Column, error) {
	var columns []*models.Column
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/projects/{id}/statuses",
		path:   "/projects/" + escape(projectID) + "/statuses",
		out:    &columns,
	})
	return columns, err
}

func (c *Client) CreateStatus(ctx context.Context, projectID types.ProjectID, in StatusInput) (*models.Column, error) {
	var column models.Column
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/projects/{id}/statuses",
		path:   "/projects/" + escape(projectID) + "/statuses",
		body:   in,
		out:    &column,
	})
	if err != nil {
		return nil, err
	}
	return &column, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id types.ColumnID, in StatusPatch) (*models.Column, error) {
	var column models.Column
	err := c.do(ctx, call{method: http.MethodPatch, route: "/statuses/{id}", path: "/statuses/" + escape(id), body: in, out: &column})
	if err != nil {
		return nil, err
	}
	return &column, nil
}

// DeleteStatus deletes a column; the backend moves its tasks to fallbackID
func (c *Client) DeleteStatus(ctx context.Context, id, fallbackID types.ColumnID) error {
	query := url.Values{}
	if !fallbackID.IsZero() {
		query.Set("fallbackId", fallbackID.String())
	}
	return c.do(ctx, call{method: http.MethodDelete, route: "/statuses/{id}", path: "/statuses/" + escape(id), query: query})
}

// ReorderStatuses replaces the project's entire column order
func (c *Client) ReorderStatuses(ctx context.Context, projectID types.ProjectID, ids []types.ColumnID) error {
	return c.do(ctx, call{
		method: http.MethodPut,
		route:  "/projects/{id}/statuses/order",
		path:   "/projects/" + escape(projectID) + "/statuses/order",
		body:   statusOrder{StatusIDs: ids},
	})
}
