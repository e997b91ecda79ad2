package api

import (
	"context"
	"net/http"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// TeamInput is the create/rename payload for a team
type TeamInput struct {
	Name string `json:"name"`
}

// MemberInput invites a user to a team by email
type MemberInput struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func (c *Client) ListTeams(ctx context.Context) ([]*models.Team, error) {
	var teams []*models.Team
	err := c.do(ctx, call{method: http.MethodGet, route: "/teams", path: "/teams", out: &teams})
	return teams, err
}

func (c *Client) GetTeam(ctx context.Context, id types.TeamID) (*models.Team, error) {
	var team models.Team
	err := c.do(ctx, call{method: http.MethodGet, route: "/teams/{id}", path: "/teams/" + escape(id), out: &team})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (c *Client) CreateTeam(ctx context.Context, in TeamInput) (*models.Team, error) {
	var team models.Team
	err := c.do(ctx, call{method: http.MethodPost, route: "/teams", path: "/teams", body: in, out: &team})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (c *Client) UpdateTeam(ctx context.Context, id types.TeamID, in TeamInput) (*models.Team, error) {
	var team models.Team
	err := c.do(ctx, call{method: http.MethodPatch, route: "/teams/{id}", path: "/teams/" + escape(id), body: in, out: &team})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (c *Client) DeleteTeam(ctx context.Context, id types.TeamID) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/teams/{id}", path: "/teams/" + escape(id)})
}

func (c *Client) ListMembers(ctx context.Context, id types.TeamID) ([]*models.TeamMember, error) {
	var members []*models.TeamMember
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/teams/{id}/members",
		path:   "/teams/" + escape(id) + "/members",
		out:    &members,
	})
	return members, err
}

func (c *Client) AddMember(ctx context.Context, id types.TeamID, in MemberInput) (*models.TeamMember, error) {
	var member models.TeamMember
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/teams/{id}/members",
		path:   "/teams/" + escape(id) + "/members",
		body:   in,
		out:    &member,
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (c *Client) RemoveMember(ctx context.Context, id types.TeamID, userID types.UserID) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		route:  "/teams/{id}/members/{userId}",
		path:   "/teams/" + escape(id) + "/members/" + escape(userID),
	})
}
