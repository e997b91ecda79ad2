package board

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

func testColumns(slugs ...string) []*models.Column {
	cols := make([]*models.Column, len(slugs))
	for i, slug := range slugs {
		cols[i] = &models.Column{ID: types.ColumnID("col-" + slug), ProjectID: "p1", Name: slug, Slug: slug, Position: i}
	}
	return cols
}

func TestResolve(t *testing.T) {
	columns := testColumns("todo", "in_progress", "in_review", "done")

	tests := []struct {
		name string
		task models.Task
		want Resolution
	}{
		{
			name: "direct column id",
			task: models.Task{StatusID: "col-done", Status: models.LegacyTodo},
			want: Resolution{Kind: Direct, ColumnID: "col-done"},
		},
		{
			name: "legacy status maps to slug",
			task: models.Task{Status: models.LegacyInReview},
			want: Resolution{Kind: LegacyMapped, ColumnID: "col-in_review"},
		},
		{
			name: "stale column id falls through to legacy",
			task: models.Task{StatusID: "col-deleted", Status: models.LegacyInProgress},
			want: Resolution{Kind: LegacyMapped, ColumnID: "col-in_progress"},
		},
		{
			name: "nothing matches",
			task: models.Task{StatusID: "col-deleted"},
			want: Resolution{Kind: Fallback, ColumnID: "col-todo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(&tt.task, columns))
		})
	}
}

func TestResolve_LegacyWithoutMatchingSlugUsesFirstColumn(t *testing.T) {
	columns := testColumns("todo", "in_progress", "done")
	task := &models.Task{ID: "t1", Status: models.LegacyInReview}

	got := Resolve(task, columns)
	assert.Equal(t, Fallback, got.Kind)
	assert.Equal(t, types.ColumnID("col-todo"), got.ColumnID)
}

func TestResolve_NoColumns(t *testing.T) {
	got := Resolve(&models.Task{StatusID: "x"}, nil)
	assert.Equal(t, Unresolved, got.Kind)
	assert.True(t, got.ColumnID.IsZero())
}

func TestGroup(t *testing.T) {
	columns := testColumns("todo", "in_progress", "done")
	tasks := []*models.Task{
		{ID: "t1", StatusID: "col-done"},
		{ID: "t2", Status: models.LegacyInProgress},
		{ID: "t3", Status: models.LegacyInReview},
		{ID: "t4", StatusID: "col-done"},
		{ID: "t5", StatusID: "col-todo"},
		{ID: "t6"},
	}

	g := Group(tasks, columns)
	assert.Zero(t, g.Orphans)

	ids := func(col types.ColumnID) []types.TaskID {
		var out []types.TaskID
		for _, task := range g.In(col) {
			out = append(out, task.ID)
		}
		return out
	}
	assert.Equal(t, []types.TaskID{"t3", "t5", "t6"}, ids("col-todo"))
	assert.Equal(t, []types.TaskID{"t2"}, ids("col-in_progress"))
	assert.Equal(t, []types.TaskID{"t1", "t4"}, ids("col-done"))

	seen := make(map[types.TaskID]int)
	for _, cards := range g.Cards {
		for _, task := range cards {
			seen[task.ID]++
		}
	}
	assert.Equal(t, []types.TaskID{"t3", "t6"}, g.Fallbacks)
	require.Len(t, seen, len(tasks))
	for id, n := range seen {
		assert.Equal(t, 1, n, "task %s grouped %d times", id, n)
	}
}

func TestGroup_NoColumnsCountsOrphans(t *testing.T) {
	tasks := []*models.Task{{ID: "t1"}, {ID: "t2"}}
	g := Group(tasks, nil)
	assert.Empty(t, g.Cards)
	assert.Equal(t, 2, g.Orphans)
	assert.Len(t, tasks, 2)
}

func TestFallbackLoggedOncePerReplace(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	coord := NewCoordinator(newFakeBackend(nil, nil), "p1")
	coord.Replace(testColumns("todo", "done"), []*models.Task{
		{ID: "t1", Status: models.LegacyInReview},
		{ID: "t2"},
		{ID: "t3", StatusID: "col-done"},
	})
	for range 5 {
		coord.Snapshot()
	}

	assert.Equal(t, 1, strings.Count(buf.String(), "no matching column"))
	assert.Contains(t, buf.String(), "count=2")
}
