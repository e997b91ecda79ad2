package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/testutil"
	"github.com/thenoetrevino/tablero/internal/types"
)

func newTestClient(t *testing.T) (*Client, *testutil.FakeBackend, *testutil.StaticToken) {
	t.Helper()
	backend := testutil.NewFakeBackend(t)
	tokens := &testutil.StaticToken{}
	return NewClient(Config{BaseURL: backend.URL() + "/"}, tokens), backend, tokens
}

type failingTokens struct{ err error }

func (f failingTokens) Token(context.Context) (string, error) { return "", f.err }
func (f failingTokens) Invalidate(context.Context) error     { return nil }

func TestClient_SetsRequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, UserAgent: "tablero-test"}, &testutil.StaticToken{})
	err := client.ReorderStatuses(context.Background(), "p1", types.ColumnIDs("a", "b"))
	require.NoError(t, err)

	assert.Equal(t, "Bearer "+testutil.TestToken, got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "tablero-test", got.Get("User-Agent"))
	assert.Len(t, got.Get("X-Request-ID"), 36)
}

func TestClient_NoTokenSkipsRequest(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	sentinel := errors.New("signed out")
	client := NewClient(Config{BaseURL: backend.URL()}, failingTokens{err: sentinel})

	_, err := client.ListTeams(context.Background())
	assert.ErrorIs(t, err, sentinel)
	assert.Empty(t, backend.Requests())
}

func TestClient_ErrorMapping(t *testing.T) {
	client, backend, tokens := newTestClient(t)
	ctx := context.Background()

	_, err := client.GetTask(ctx, "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsRetryable(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "not_found", apiErr.Code)
	assert.Equal(t, "task not found", apiErr.Message)
	assert.NotEmpty(t, apiErr.RequestID)

	backend.Fail("GET /teams", http.StatusServiceUnavailable)
	_, err = client.ListTeams(ctx)
	assert.ErrorIs(t, err, ErrServer)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, 0, tokens.Invalidations())
}

func TestClient_UnauthorizedInvalidatesSession(t *testing.T) {
	client, backend, tokens := newTestClient(t)
	backend.Fail("GET /me", http.StatusUnauthorized)

	_, err := client.Me(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, tokens.Invalidations())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
		{"conflict", &APIError{Status: http.StatusConflict}, false},
		{"rate limited", &APIError{Status: http.StatusTooManyRequests}, true},
		{"bad gateway", &APIError{Status: http.StatusBadGateway}, true},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestClient_StatusLifecycle(t *testing.T) {
	client, backend, _ := newTestClient(t)
	ctx := context.Background()
	team := backend.AddTeam("Core")
	project := backend.AddProject(team.ID, "Web", "WEB")
	todo := backend.AddColumn(project.ID, "Todo", "todo")
	done := backend.AddColumn(project.ID, "Done", "done")

	review, err := client.CreateStatus(ctx, project.ID, StatusInput{Name: "Review", Slug: "review", Color: "#FF0000"})
	require.NoError(t, err)
	assert.Equal(t, 2, review.Position)

	err = client.ReorderStatuses(ctx, project.ID, []types.ColumnID{review.ID, todo.ID, done.ID})
	require.NoError(t, err)

	columns, err := client.ListStatuses(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, columns, 3)
	assert.Equal(t, []types.ColumnID{review.ID, todo.ID, done.ID},
		[]types.ColumnID{columns[0].ID, columns[1].ID, columns[2].ID})
	assert.Equal(t, 0, columns[0].Position)

	name := "In Review"
	updated, err := client.UpdateStatus(ctx, review.ID, StatusPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "In Review", updated.Name)
	assert.Equal(t, "review", updated.Slug)

	task := backend.AddTask(project.ID, "Ship", review.ID)
	require.NoError(t, client.DeleteStatus(ctx, review.ID, done.ID))
	assert.Equal(t, done.ID, backend.Task(task.ID).StatusID)

	reqs := backend.RequestsFor("DELETE /statuses/{id}")
	require.Len(t, reqs, 1)
	assert.Equal(t, "fallbackId="+done.ID.String(), reqs[0].Query)
}

func TestClient_ReorderBody(t *testing.T) {
	client, backend, _ := newTestClient(t)
	team := backend.AddTeam("Core")
	project := backend.AddProject(team.ID, "Web", "WEB")
	a := backend.AddColumn(project.ID, "A", "a")
	b := backend.AddColumn(project.ID, "B", "b")

	require.NoError(t, client.ReorderStatuses(context.Background(), project.ID, []types.ColumnID{b.ID, a.ID}))

	reqs := backend.RequestsFor("PUT /projects/{id}/statuses/order")
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"statusIds":["`+b.ID.String()+`","`+a.ID.String()+`"]}`, reqs[0].Body)
}

func TestClient_TaskLifecycle(t *testing.T) {
	client, backend, _ := newTestClient(t)
	ctx := context.Background()
	team := backend.AddTeam("Core")
	project := backend.AddProject(team.ID, "Web", "WEB")
	todo := backend.AddColumn(project.ID, "Todo", "todo")
	done := backend.AddColumn(project.ID, "Done", "done")

	task, err := client.CreateTask(ctx, project.ID, TaskInput{Title: "Write docs", Priority: models.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, todo.ID, task.StatusID)

	require.NoError(t, client.UpdateTaskStatus(ctx, task.ID, done.ID))
	got, err := client.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, done.ID, got.StatusID)

	reqs := backend.RequestsFor("PATCH /tasks/{id}/status")
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"statusId":"`+done.ID.String()+`"}`, reqs[0].Body)

	title := "Write better docs"
	hours := 3.5
	updated, err := client.UpdateTask(ctx, task.ID, TaskPatch{Title: &title, EstimatedHours: &hours})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	require.NotNil(t, updated.EstimatedHours)
	assert.InDelta(t, 3.5, *updated.EstimatedHours, 0.001)

	tasks, err := client.ListTasks(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	require.NoError(t, client.DeleteTask(ctx, task.ID))
	_, err = client.GetTask(ctx, task.ID)
	assert.True(t, IsNotFound(err))
}

func TestClient_WorklogFilterQuery(t *testing.T) {
	client, backend, _ := newTestClient(t)
	team := backend.AddTeam("Core")
	project := backend.AddProject(team.ID, "Web", "WEB")

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	_, err := client.ListWorklogs(context.Background(), project.ID, WorklogFilter{From: from, To: to})
	require.NoError(t, err)

	reqs := backend.RequestsFor("GET /projects/{id}/worklogs")
	require.Len(t, reqs, 1)
	assert.Equal(t, "from=2026-02-01&to=2026-02-28", reqs[0].Query)
}

func TestClient_APIKeySecretOnlyOnCreate(t *testing.T) {
	client, _, _ := newTestClient(t)
	ctx := context.Background()

	key, err := client.CreateAPIKey(ctx, "laptop")
	require.NoError(t, err)
	assert.NotEmpty(t, key.Secret)

	keys, err := client.ListAPIKeys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Empty(t, keys[0].Secret)

	require.NoError(t, client.RevokeAPIKey(ctx, key.ID))
	err = client.RevokeAPIKey(ctx, key.ID)
	assert.True(t, IsNotFound(err))
}

func TestClient_RecordsLatency(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	reg := prometheus.NewRegistry()
	client := NewClient(Config{BaseURL: backend.URL()}, &testutil.StaticToken{}, WithMetrics(NewMetrics(reg)))

	_, err := client.Me(context.Background())
	require.NoError(t, err)
	_, _ = client.GetTeam(context.Background(), "nope")

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "tablero_api_request_seconds", families[0].GetName())
	assert.Len(t, families[0].GetMetric(), 2, "one series per status")
}
