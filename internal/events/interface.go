package events

import (
	"context"

	"github.com/thenoetrevino/tablero/internal/types"
)

// EventPublisher is what services and the board depend on. *Client
// implements it; tests substitute a recorder.
type EventPublisher interface {
	Connect(ctx context.Context) error
	SendEvent(event Event) error
	Listen(ctx context.Context) (<-chan Event, error)
	Subscribe(projectID types.ProjectID) error
	Close() error
}

var _ EventPublisher = (*Client)(nil)
