// Package clitest runs CLI commands against a fake backend
package clitest

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/session"
	"github.com/thenoetrevino/tablero/internal/testutil"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Env is a signed-in App talking to a FakeBackend
type Env struct {
	Backend  *testutil.FakeBackend
	App      *app.App
	Recorder *testutil.EventRecorder
}

// Setup builds an App over a fresh FakeBackend with a signed-in in-memory
// session and an event recorder in place of the daemon
func Setup(t *testing.T) *Env {
	t.Helper()

	backend := testutil.NewFakeBackend(t)
	recorder := testutil.NewEventRecorder()

	cfg := config.Default()
	cfg.APIURL = backend.URL()
	cfg.IdentityURL = backend.URL()

	store := session.NewMemoryStore()
	require.NoError(t, store.SaveTokens(context.Background(), session.Tokens{AccessToken: testutil.TestToken}))

	a, err := app.New(context.Background(), cfg,
		app.WithSessionStore(store),
		app.WithEventPublisher(recorder),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return &Env{Backend: backend, App: a, Recorder: recorder}
}

// Run executes cmd with the App injected and returns stdout, stderr and the
// exit code
func (e *Env) Run(cmd *cobra.Command, args ...string) (stdout, stderr string, code int) {
	ctx := cli.WithApp(context.Background(), e.App)
	stdout, stderr, err := testutil.ExecuteCommand(ctx, cmd, args...)
	return stdout, stderr, cli.ExitCode(err)
}

// UseProject selects the current project
func (e *Env) UseProject(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, e.App.Session.SetCurrentProject(context.Background(), types.ProjectID(id)))
}
