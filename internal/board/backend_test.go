package board

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/api"
	"github.com/thenoetrevino/tablero/internal/testutil"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Runs the coordinator against the REST client and the fake HTTP backend.
func TestCoordinator_WithAPIClient(t *testing.T) {
	server := testutil.NewFakeBackend(t)
	team := server.AddTeam("Core")
	project := server.AddProject(team.ID, "Web", "WEB")
	todo := server.AddColumn(project.ID, "Todo", "todo")
	doing := server.AddColumn(project.ID, "Doing", "in_progress")
	done := server.AddColumn(project.ID, "Done", "done")
	legacy := server.AddTask(project.ID, "Legacy", "")

	client := api.NewClient(api.Config{BaseURL: server.URL()}, &testutil.StaticToken{})
	notices := &noticeLog{}
	coord := NewCoordinator(client, project.ID, WithNotifier(notices))
	ctx := context.Background()
	require.NoError(t, coord.Refresh(ctx))

	res, ok := coord.EffectiveColumn(legacy.ID)
	require.True(t, ok)
	assert.Equal(t, LegacyMapped, res.Kind)
	assert.Equal(t, todo.ID, res.ColumnID)

	op, err := coord.ReorderColumns(ctx, 0, 2)
	require.NoError(t, err)
	require.NoError(t, waitOp(t, op))
	assert.Equal(t, []types.ColumnID{doing.ID, done.ID, todo.ID}, columnIDsOf(server.Columns(project.ID)))

	server.Fail("PATCH /tasks/{id}/status", http.StatusInternalServerError)
	op, err = coord.MoveCard(ctx, legacy.ID, done.ID)
	require.NoError(t, err)
	err = waitOp(t, op)
	assert.ErrorIs(t, err, api.ErrServer)

	res, _ = coord.EffectiveColumn(legacy.ID)
	assert.Equal(t, todo.ID, res.ColumnID)
	assert.True(t, server.Task(legacy.ID).StatusID.IsZero())
	require.Len(t, notices.all(), 1)

	server.Recover("PATCH /tasks/{id}/status")
	op, err = coord.MoveCard(ctx, legacy.ID, done.ID)
	require.NoError(t, err)
	require.NoError(t, waitOp(t, op))
	assert.Equal(t, done.ID, server.Task(legacy.ID).StatusID)
}
