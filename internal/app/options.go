package app

import (
	"net/http"

	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/session"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	eventClient events.EventPublisher
	store       session.Store
	statePath   string
	httpClient  *http.Client
}

// WithEventPublisher sets the event publisher services report mutations to
func WithEventPublisher(ec events.EventPublisher) Option {
	return func(cfg *appConfig) {
		cfg.eventClient = ec
	}
}

// WithSessionStore replaces the SQLite session store
func WithSessionStore(store session.Store) Option {
	return func(cfg *appConfig) {
		cfg.store = store
	}
}

// WithStatePath opens the SQLite state database at path instead of
// ~/.tablero/state.db
func WithStatePath(path string) Option {
	return func(cfg *appConfig) {
		cfg.statePath = path
	}
}

// WithHTTPClient is used for both the backend and the identity provider
func WithHTTPClient(hc *http.Client) Option {
	return func(cfg *appConfig) {
		cfg.httpClient = hc
	}
}
