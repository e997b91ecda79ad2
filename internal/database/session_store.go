package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thenoetrevino/tablero/internal/session"
)

// SessionStore persists session state in SQLite
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore wraps an initialized database
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

var _ session.Store = (*SessionStore)(nil)

// LoadTokens returns the stored tokens, or empty tokens if none are stored
func (s *SessionStore) LoadTokens(ctx context.Context) (session.Tokens, error) {
	var (
		tokens    session.Tokens
		expiresAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT access_token, refresh_token, expires_at FROM auth_tokens WHERE id = 1",
	).Scan(&tokens.AccessToken, &tokens.RefreshToken, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Tokens{}, nil
	}
	if err != nil {
		return session.Tokens{}, fmt.Errorf("failed to load tokens: %w", err)
	}
	if expiresAt.Valid {
		tokens.ExpiresAt = expiresAt.Time.UTC()
	}
	return tokens, nil
}

// SaveTokens replaces the stored tokens
func (s *SessionStore) SaveTokens(ctx context.Context, tokens session.Tokens) error {
	var expiresAt any
	if !tokens.ExpiresAt.IsZero() {
		expiresAt = tokens.ExpiresAt.UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO auth_tokens (id, access_token, refresh_token, expires_at, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`, tokens.AccessToken, tokens.RefreshToken, expiresAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}

// ClearTokens removes the stored tokens
func (s *SessionStore) ClearTokens(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM auth_tokens"); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}

// GetState returns the value stored under key, or "" if absent
func (s *SessionStore) GetState(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM client_state WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read state %q: %w", key, err)
	}
	return value, nil
}

// SetState stores value under key; an empty value deletes the key
func (s *SessionStore) SetState(ctx context.Context, key, value string) error {
	if value == "" {
		_, err := s.db.ExecContext(ctx, "DELETE FROM client_state WHERE key = ?", key)
		if err != nil {
			return fmt.Errorf("failed to clear state %q: %w", key, err)
		}
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write state %q: %w", key, err)
	}
	return nil
}
