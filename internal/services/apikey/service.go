package apikey

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Service manages the signed-in user's API keys
type Service interface {
	ListKeys(ctx context.Context) ([]*models.APIKey, error)
	CreateKey(ctx context.Context, name string) (*models.APIKey, error)
	RevokeKey(ctx context.Context, id types.APIKeyID) error
}

type backend interface {
	ListAPIKeys(ctx context.Context) ([]*models.APIKey, error)
	CreateAPIKey(ctx context.Context, name string) (*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id types.APIKeyID) error
}

type service struct {
	client backend
}

// NewService creates a new API key service
func NewService(client backend) Service {
	return &service{client: client}
}

func (s *service) ListKeys(ctx context.Context) ([]*models.APIKey, error) {
	return s.client.ListAPIKeys(ctx)
}

// CreateKey issues a key. The returned Secret is never shown again.
func (s *service) CreateKey(ctx context.Context, name string) (*models.APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if utf8.RuneCountInString(name) > 64 {
		return nil, ErrNameTooLong
	}

	key, err := s.client.CreateAPIKey(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create api key: %w", err)
	}
	if key.Secret == "" {
		return nil, ErrNoSecret
	}
	return key, nil
}

func (s *service) RevokeKey(ctx context.Context, id types.APIKeyID) error {
	if id == "" {
		return ErrInvalidKeyID
	}
	if err := s.client.RevokeAPIKey(ctx, id); err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
	}
	return nil
}
