package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/session"
	"github.com/thenoetrevino/tablero/internal/types"
)

func TestNew(t *testing.T) {
	a, err := New(context.Background(), nil, WithSessionStore(session.NewMemoryStore()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.NotNil(t, a.Config)
	assert.NotNil(t, a.Session)
	assert.NotNil(t, a.API)
	assert.NotNil(t, a.Identity)
	assert.Nil(t, a.Events)

	assert.NotNil(t, a.TeamService)
	assert.NotNil(t, a.ProjectService)
	assert.NotNil(t, a.ColumnService)
	assert.NotNil(t, a.TaskService)
	assert.NotNil(t, a.WorklogService)
	assert.NotNil(t, a.APIKeyService)
}

func TestNewOpensStateDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	a, err := New(ctx, config.Default(), WithStatePath(path))
	require.NoError(t, err)
	require.NoError(t, a.Session.SetCurrentProject(ctx, "proj-1"))
	require.NoError(t, a.Close())

	reopened, err := New(ctx, config.Default(), WithStatePath(path))
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.CurrentProject(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ProjectID("proj-1"), got)
}

func TestCurrentProjectOverride(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Project = "from-env"

	a, err := New(ctx, cfg, WithSessionStore(session.NewMemoryStore()))
	require.NoError(t, err)
	require.NoError(t, a.Session.SetCurrentProject(ctx, "stored"))

	got, err := a.CurrentProject(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ProjectID("from-env"), got)
}

func TestCurrentProjectUnset(t *testing.T) {
	a, err := New(context.Background(), nil, WithSessionStore(session.NewMemoryStore()))
	require.NoError(t, err)

	_, err = a.CurrentProject(context.Background())
	assert.ErrorIs(t, err, session.ErrNoProject)
}

func TestNewBoardRegistersMetrics(t *testing.T) {
	a, err := New(context.Background(), nil, WithSessionStore(session.NewMemoryStore()))
	require.NoError(t, err)

	b := a.NewBoard("proj-1")
	assert.Equal(t, types.ProjectID("proj-1"), b.ProjectID())

	// a second board shares the collectors instead of re-registering
	assert.NotPanics(t, func() { a.NewBoard("proj-2") })
}

func TestConnectEventsWithoutDaemon(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ec := ConnectEvents(ctx, filepath.Join(t.TempDir(), "missing.sock"))
	assert.Nil(t, ec)
}
