package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/cli/clitest"
	"github.com/thenoetrevino/tablero/internal/identity"
	"github.com/thenoetrevino/tablero/internal/session"
	"github.com/thenoetrevino/tablero/internal/testutil"
)

type provider struct {
	revoked []string
}

// setup returns a signed-out env whose identity provider accepts
// ana@example.com / hunter22 and issues the fake backend's token
func setup(t *testing.T) (*clitest.Env, *provider) {
	t.Helper()
	env := clitest.Setup(t)
	require.NoError(t, env.App.Session.Invalidate(context.Background()))

	p := &provider{}
	issue := func(w http.ResponseWriter) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"accessToken": testutil.TestToken, "refreshToken": "r-1", "expiresIn": 3600,
		})
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Email != "ana@example.com" || in.Password != "hunter22" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"invalid_credentials","message":"nope"}`))
			return
		}
		issue(w)
	})
	mux.HandleFunc("POST /auth/signup", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Email string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Email == "ana@example.com" {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"code":"email_taken","message":"taken"}`))
			return
		}
		issue(w)
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		issue(w)
	})
	mux.HandleFunc("POST /auth/signout", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ RefreshToken string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		p.revoked = append(p.revoked, in.RefreshToken)
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	env.App.Identity = identity.NewClient(srv.URL, nil)
	return env, p
}

func TestSignIn(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		env      string
		wantCode int
	}{
		{name: "password from stdin", stdin: "hunter22\n", wantCode: cli.ExitSuccess},
		{name: "password from env", env: "hunter22", wantCode: cli.ExitSuccess},
		{name: "wrong password", stdin: "hunter2\n", wantCode: cli.ExitAuth},
		{name: "no password", wantCode: cli.ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _ := setup(t)
			t.Setenv(PasswordEnv, tt.env)

			args := []string{"signin", "--email", "ana@example.com"}
			cmd := AuthCmd()
			if tt.stdin != "" {
				cmd.SetIn(strings.NewReader(tt.stdin))
				args = append(args, "--password-stdin")
			}

			stdout, stderr, code := env.Run(cmd, args...)
			require.Equal(t, tt.wantCode, code, "stdout=%s stderr=%s", stdout, stderr)

			_, err := env.App.Session.Token(context.Background())
			if tt.wantCode == cli.ExitSuccess {
				require.NoError(t, err)
				assert.Contains(t, stdout, "✓ Signed in")
				assert.Contains(t, stdout, "me@example.com", "profile comes from the backend")
			} else {
				assert.ErrorIs(t, err, session.ErrNotAuthenticated)
			}
		})
	}
}

func TestSignUp(t *testing.T) {
	env, _ := setup(t)
	t.Setenv(PasswordEnv, "s3cret-pass")

	_, stderr, code := env.Run(AuthCmd(), "signup", "--email", "ana@example.com")
	assert.Equal(t, cli.ExitValidation, code)
	assert.Contains(t, stderr, "already exists")

	stdout, _, code := env.Run(AuthCmd(), "signup", "--email", "ben@example.com", "--name", "Ben", "--json")
	require.Equal(t, cli.ExitSuccess, code)
	data := testutil.ParseJSON(t, stdout)["data"].(map[string]any)
	assert.NotEmpty(t, data["expiresAt"])
}

func TestWhoAmI(t *testing.T) {
	t.Run("signed in", func(t *testing.T) {
		env := clitest.Setup(t)
		stdout, _, code := env.Run(AuthCmd(), "whoami")
		require.Equal(t, cli.ExitSuccess, code)
		assert.Contains(t, stdout, "Me <me@example.com>")
		assert.Contains(t, stdout, "u-me")
	})

	t.Run("signed out", func(t *testing.T) {
		env, _ := setup(t)
		_, stderr, code := env.Run(AuthCmd(), "whoami")
		assert.Equal(t, cli.ExitAuth, code)
		assert.Contains(t, stderr, "tablero auth signin")
	})

	t.Run("expired", func(t *testing.T) {
		env, _ := setup(t)
		require.NoError(t, env.App.Session.Save(context.Background(), session.Tokens{
			AccessToken: testutil.TestToken, ExpiresAt: time.Now().Add(-time.Minute),
		}))

		stdout, _, code := env.Run(AuthCmd(), "whoami", "--json")
		assert.Equal(t, cli.ExitAuth, code)
		errData := testutil.ParseJSON(t, stdout)["error"].(map[string]any)
		assert.Equal(t, "SESSION_EXPIRED", errData["code"])
	})
}

func TestRefresh(t *testing.T) {
	env, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, env.App.Session.Save(ctx, session.Tokens{
		AccessToken: "stale", RefreshToken: "r-0", ExpiresAt: time.Now().Add(-time.Minute),
	}))

	_, _, code := env.Run(AuthCmd(), "refresh")
	require.Equal(t, cli.ExitSuccess, code)

	token, err := env.App.Session.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestToken, token)
}

func TestSignOut(t *testing.T) {
	env, p := setup(t)
	ctx := context.Background()
	require.NoError(t, env.App.Session.Save(ctx, session.Tokens{AccessToken: testutil.TestToken, RefreshToken: "r-1"}))

	stdout, _, code := env.Run(AuthCmd(), "signout")
	require.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, stdout, "Signed out")
	assert.Equal(t, []string{"r-1"}, p.revoked)

	_, err := env.App.Session.Token(ctx)
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}
