package api

import (
	"context"
	"net/http"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// ProjectInput creates a project
type ProjectInput struct {
	Name        string `json:"name"`
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
}

// ProjectPatch updates a project; nil fields are left alone
type ProjectPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (c *Client) ListProjects(ctx context.Context, teamID types.TeamID) ([]*models.Project, error) {
	var projects []*models.Project
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/teams/{id}/projects",
		path:   "/teams/" + escape(teamID) + "/projects",
		out:    &projects,
	})
	return projects, err
}

func (c *Client) GetProject(ctx context.Context, id types.ProjectID) (*models.Project, error) {
	var project models.Project
	err := c.do(ctx, call{method: http.MethodGet, route: "/projects/{id}", path: "/projects/" + escape(id), out: &project})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) CreateProject(ctx context.Context, teamID types.TeamID, in ProjectInput) (*models.Project, error) {
	var project models.Project
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/teams/{id}/projects",
		path:   "/teams/" + escape(teamID) + "/projects",
		body:   in,
		out:    &project,
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) UpdateProject(ctx context.Context, id types.ProjectID, in ProjectPatch) (*models.Project, error) {
	var project models.Project
	err := c.do(ctx, call{method: http.MethodPatch, route: "/projects/{id}", path: "/projects/" + escape(id), body: in, out: &project})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) DeleteProject(ctx context.Context, id types.ProjectID) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/projects/{id}", path: "/projects/" + escape(id)})
}
