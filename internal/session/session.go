// Package session holds the signed-in state of the client. It is the only
// owner of the bearer credential: API clients read it through Token and
// drop it through Invalidate.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thenoetrevino/tablero/internal/types"
)

// Session is the explicit auth context injected into API clients
type Session struct {
	store Store
	now   func() time.Time

	mu       sync.RWMutex
	tokens   Tokens
	hydrated bool
}

// Option configures a Session
type Option func(*Session)

// WithClock overrides the time source used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New creates a session backed by store. Nothing is read until Hydrate or
// the first Token call.
func New(store Store, opts ...Option) *Session {
	s := &Session{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate loads persisted tokens into memory. Safe to call more than once.
func (s *Session) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrateLocked(ctx)
}

func (s *Session) hydrateLocked(ctx context.Context) error {
	if s.hydrated {
		return nil
	}
	tokens, err := s.store.LoadTokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	s.tokens = tokens
	s.hydrated = true

	if err := s.store.SetState(ctx, StateHydratedAt, s.now().UTC().Format(time.RFC3339)); err != nil {
		slog.Warn("failed to record hydration time", "error", err)
	}
	return nil
}

// Hydrated reports whether persisted state has been loaded
func (s *Session) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Token returns the current bearer credential
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.hydrateLocked(ctx); err != nil {
		return "", err
	}
	if s.tokens.Empty() {
		return "", ErrNotAuthenticated
	}
	if exp := expiry(s.tokens); !exp.IsZero() && !s.now().Before(exp) {
		return "", ErrTokenExpired
	}
	return s.tokens.AccessToken, nil
}

// RefreshToken returns the stored refresh token, if any
func (s *Session) RefreshToken(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hydrateLocked(ctx); err != nil {
		return ""
	}
	return s.tokens.RefreshToken
}

// Save stores freshly issued tokens
func (s *Session) Save(ctx context.Context, tokens Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveTokens(ctx, tokens); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.tokens = tokens
	s.hydrated = true
	return nil
}

// Invalidate drops the credential both in memory and on disk
func (s *Session) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens = Tokens{}
	s.hydrated = true
	if err := s.store.ClearTokens(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// CurrentProject returns the project selected with `tablero use project`
func (s *Session) CurrentProject(ctx context.Context) (types.ProjectID, error) {
	value, err := s.store.GetState(ctx, StateCurrentProject)
	if err != nil {
		return "", fmt.Errorf("failed to read current project: %w", err)
	}
	if value == "" {
		return "", ErrNoProject
	}
	return types.ProjectID(value), nil
}

// SetCurrentProject stores the selected project; empty clears it
func (s *Session) SetCurrentProject(ctx context.Context, id types.ProjectID) error {
	if err := s.store.SetState(ctx, StateCurrentProject, string(id)); err != nil {
		return fmt.Errorf("failed to store current project: %w", err)
	}
	return nil
}
