package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/daemon"
	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/types"
)

// SetupTestDaemon starts a daemon on a socket in a temp dir and waits until
// it accepts connections. Shutdown is registered with t.Cleanup.
func SetupTestDaemon(t *testing.T) (*daemon.Server, string) {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "tablero-test.sock")
	server, err := daemon.NewServer(socketPath)
	require.NoError(t, err, "failed to create test daemon")

	t.Cleanup(func() {
		if err := server.Shutdown(); err != nil {
			t.Logf("daemon shutdown error during cleanup: %v", err)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() {
		if err := server.Start(ctx); err != nil {
			t.Logf("daemon error: %v", err)
		}
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(socketPath)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond, "daemon socket never appeared")
	return server, socketPath
}

// SetupTestClient connects an events client with a short debounce window
func SetupTestClient(t *testing.T, socketPath string) *events.Client {
	t.Helper()

	client := events.NewClient(socketPath, events.WithDebounce(10*time.Millisecond))
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, client.Connect(ctx), "failed to connect test client")
	return client
}

// WaitForEvent fails the test if no event arrives within timeout
func WaitForEvent(t *testing.T, ch <-chan events.Event, timeout time.Duration) events.Event {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "event channel closed")
		return event
	case <-time.After(timeout):
		t.Fatalf("timed out after %v waiting for event", timeout)
		return events.Event{}
	}
}

// WaitForNoEvent fails the test if an event arrives within timeout
func WaitForNoEvent(t *testing.T, ch <-chan events.Event, timeout time.Duration) {
	t.Helper()
	select {
	case event := <-ch:
		t.Fatalf("unexpected event: %+v", event)
	case <-time.After(timeout):
	}
}

// EventRecorder is an in-memory events.EventPublisher
type EventRecorder struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

var _ events.EventPublisher = (*EventRecorder)(nil)

// NewEventRecorder creates an empty recorder
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// FailWith makes every SendEvent return err
func (r *EventRecorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *EventRecorder) Connect(context.Context) error { return nil }

func (r *EventRecorder) SendEvent(event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *EventRecorder) Listen(context.Context) (<-chan events.Event, error) {
	return make(chan events.Event), nil
}

func (r *EventRecorder) Subscribe(types.ProjectID) error { return nil }

func (r *EventRecorder) Close() error { return nil }

// Events returns a copy of everything sent so far
func (r *EventRecorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

// Projects returns the project id of every recorded event, in order
func (r *EventRecorder) Projects() []types.ProjectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]types.ProjectID, len(r.events))
	for i, e := range r.events {
		ids[i] = e.ProjectID
	}
	return ids
}

// Reset forgets recorded events
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
