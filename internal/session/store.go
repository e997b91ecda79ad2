package session

import (
	"context"
	"sync"
	"time"
)

// Tokens are the credentials issued by the identity provider
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // Zero when the provider did not say
}

// Empty reports whether no access token is held
func (t Tokens) Empty() bool {
	return t.AccessToken == ""
}

// Store persists session state between process runs
type Store interface {
	LoadTokens(ctx context.Context) (Tokens, error)
	SaveTokens(ctx context.Context, tokens Tokens) error
	ClearTokens(ctx context.Context) error

	// GetState/SetState hold small client-side values such as the current
	// project. GetState returns "" for unknown keys.
	GetState(ctx context.Context, key string) (string, error)
	SetState(ctx context.Context, key, value string) error
}

// State keys
const (
	StateCurrentProject = "current_project"
	StateHydratedAt     = "hydrated_at"
)

// MemoryStore is a Store held entirely in memory
type MemoryStore struct {
	mu     sync.Mutex
	tokens Tokens
	state  map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: make(map[string]string)}
}

func (m *MemoryStore) LoadTokens(_ context.Context) (Tokens, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens, nil
}

func (m *MemoryStore) SaveTokens(_ context.Context, tokens Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = tokens
	return nil
}

func (m *MemoryStore) ClearTokens(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = Tokens{}
	return nil
}

func (m *MemoryStore) GetState(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state[key], nil
}

func (m *MemoryStore) SetState(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == "" {
		delete(m.state, key)
		return nil
	}
	m.state[key] = value
	return nil
}
