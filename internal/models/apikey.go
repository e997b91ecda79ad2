package models

import (
	"time"

	"github.com/thenoetrevino/tablero/internal/types"
)

// APIKey is a credential an external assistant uses to call the backend.
// Secret is only populated in the response that creates the key.
type APIKey struct {
	ID         types.APIKeyID `json:"id"`
	Name       string         `json:"name"`
	Prefix     string         `json:"prefix"`
	Secret     string         `json:"key,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	LastUsedAt *time.Time     `json:"lastUsedAt,omitempty"`
}

// GetID returns the key ID for quiet CLI output
func (k *APIKey) GetID() string {
	return string(k.ID)
}
