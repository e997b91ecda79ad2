package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/database"
	"github.com/thenoetrevino/tablero/internal/session"
)

// SetupTestDB opens a migrated in-memory state database
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.InitDB(context.Background(), ":memory:")
	require.NoError(t, err, "failed to create test database")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SetupTestSession returns a session over an in-memory database, signed in
// with TestToken so it is accepted by FakeBackend
func SetupTestSession(t *testing.T) *session.Session {
	t.Helper()
	sess := session.New(database.NewSessionStore(SetupTestDB(t)))
	require.NoError(t, sess.Save(context.Background(), session.Tokens{AccessToken: TestToken}))
	return sess
}
