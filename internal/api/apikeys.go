package api

import (
	"context"
	"net/http"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

type apiKeyInput struct {
	Name string `json:"name"`
}

func (c *Client) ListAPIKeys(ctx context.Context) ([]*models.APIKey, error) {
	var keys []*models.APIKey
	err := c.do(ctx, call{method: http.MethodGet, route: "/api-keys", path: "/api-keys", out: &keys})
	return keys, err
}

// CreateAPIKey issues a key; the returned Secret is never shown again
func (c *Client) CreateAPIKey(ctx context.Context, name string) (*models.APIKey, error) {
	var key models.APIKey
	err := c.do(ctx, call{method: http.MethodPost, route: "/api-keys", path: "/api-keys", body: apiKeyInput{Name: name}, out: &key})
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (c *Client) RevokeAPIKey(ctx context.Context, id types.APIKeyID) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/api-keys/{id}", path: "/api-keys/" + escape(id)})
}

// Me returns the signed-in user
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, call{method: http.MethodGet, route: "/me", path: "/me", out: &user}); err != nil {
		return nil, err
	}
	return &user, nil
}
