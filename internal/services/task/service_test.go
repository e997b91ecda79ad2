package task

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/api"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/testutil"
	"github.com/thenoetrevino/tablero/internal/types"
)

type fixture struct {
	svc      Service
	backend  *testutil.FakeBackend
	recorder *testutil.EventRecorder
	project  *models.Project
	todo     *models.Column
	doing    *models.Column
	done     *models.Column
}

func setup(t *testing.T) *fixture {
	t.Helper()
	backend := testutil.NewFakeBackend(t)
	recorder := testutil.NewEventRecorder()
	client := api.NewClient(api.Config{BaseURL: backend.URL()}, &testutil.StaticToken{})

	team := backend.AddTeam("Platform")
	project := backend.AddProject(team.ID, "Web", "WEB")
	return &fixture{
		svc:      NewService(client, recorder),
		backend:  backend,
		recorder: recorder,
		project:  project,
		todo:     backend.AddColumn(project.ID, "Todo", "todo"),
		doing:    backend.AddColumn(project.ID, "In Progress", "in_progress"),
		done:     backend.AddColumn(project.ID, "Done", "done"),
	}
}

func ptr[T any](v T) *T { return &v }

func TestCreateTask(t *testing.T) {
	f := setup(t)

	task, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{
		ProjectID:      f.project.ID,
		Title:          "  Ship login page ",
		Priority:       "high",
		ColumnID:       f.doing.ID,
		EstimatedHours: ptr(4.0),
	})
	require.NoError(t, err)

	assert.Equal(t, "Ship login page", task.Title)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	assert.Equal(t, f.doing.ID, task.StatusID)
	assert.Equal(t, []types.ProjectID{f.project.ID}, f.recorder.Projects())
}

func TestCreateTask_Defaults(t *testing.T) {
	f := setup(t)

	task, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{ProjectID: f.project.ID, Title: "Card"})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, f.todo.ID, task.StatusID, "backend places new cards in the first column")
}

func TestCreateTask_Validation(t *testing.T) {
	f := setup(t)
	other := f.backend.AddProject(f.project.TeamID, "Other", "OTH")
	foreign := f.backend.AddColumn(other.ID, "Todo", "todo")

	tests := []struct {
		name    string
		req     CreateTaskRequest
		wantErr error
	}{
		{"missing project", CreateTaskRequest{Title: "Card"}, ErrInvalidProjectID},
		{"empty title", CreateTaskRequest{ProjectID: f.project.ID, Title: "   "}, ErrEmptyTitle},
		{"title too long", CreateTaskRequest{ProjectID: f.project.ID, Title: strings.Repeat("t", 256)}, ErrTitleTooLong},
		{"bad priority", CreateTaskRequest{ProjectID: f.project.ID, Title: "Card", Priority: "critical"}, ErrInvalidPriority},
		{"negative estimate", CreateTaskRequest{ProjectID: f.project.ID, Title: "Card", EstimatedHours: ptr(-1.0)}, ErrInvalidHours},
		{"column of another project", CreateTaskRequest{ProjectID: f.project.ID, Title: "Card", ColumnID: foreign.ID}, ErrColumnNotInProject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateTask(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.recorder.Events())
}

func TestCreateTask_TitleBoundary(t *testing.T) {
	f := setup(t)
	_, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{ProjectID: f.project.ID, Title: strings.Repeat("é", 255)})
	assert.NoError(t, err, "255 characters is allowed regardless of byte length")
}

func TestUpdateTask(t *testing.T) {
	f := setup(t)
	existing := f.backend.AddTask(f.project.ID, "Old", f.todo.ID)

	task, err := f.svc.UpdateTask(context.Background(), UpdateTaskRequest{
		ID:          existing.ID,
		Title:       ptr("New"),
		Priority:    ptr("urgent"),
		ActualHours: ptr(2.5),
	})
	require.NoError(t, err)
	assert.Equal(t, "New", task.Title)
	assert.Equal(t, models.PriorityUrgent, task.Priority)
	require.NotNil(t, task.ActualHours)
	assert.InDelta(t, 2.5, *task.ActualHours, 0.001)
	assert.Equal(t, f.todo.ID, task.StatusID, "detail updates leave the column alone")
	assert.Equal(t, []types.ProjectID{f.project.ID}, f.recorder.Projects())
}

func TestUpdateTask_Validation(t *testing.T) {
	f := setup(t)
	existing := f.backend.AddTask(f.project.ID, "Old", f.todo.ID)

	tests := []struct {
		name    string
		req     UpdateTaskRequest
		wantErr error
	}{
		{"missing id", UpdateTaskRequest{Title: ptr("x")}, ErrInvalidTaskID},
		{"nothing to update", UpdateTaskRequest{ID: existing.ID}, ErrNothingToUpdate},
		{"empty title", UpdateTaskRequest{ID: existing.ID, Title: ptr(" ")}, ErrEmptyTitle},
		{"bad priority", UpdateTaskRequest{ID: existing.ID, Priority: ptr("meh")}, ErrInvalidPriority},
		{"negative hours", UpdateTaskRequest{ID: existing.ID, ActualHours: ptr(-2.0)}, ErrInvalidHours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpdateTask(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDeleteTask(t *testing.T) {
	f := setup(t)
	existing := f.backend.AddTask(f.project.ID, "Card", f.todo.ID)

	require.NoError(t, f.svc.DeleteTask(context.Background(), existing.ID))
	assert.Nil(t, f.backend.Task(existing.ID))
	assert.Equal(t, []types.ProjectID{f.project.ID}, f.recorder.Projects())

	err := f.svc.DeleteTask(context.Background(), existing.ID)
	assert.True(t, api.IsNotFound(err))
}

func TestMoveTaskToColumn(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	card := f.backend.AddTask(f.project.ID, "Card", f.todo.ID)

	require.NoError(t, f.svc.MoveTaskToColumn(ctx, card.ID, f.done.ID))
	assert.Equal(t, f.done.ID, f.backend.Task(card.ID).StatusID)
	assert.Equal(t, []types.ProjectID{f.project.ID}, f.recorder.Projects())

	assert.ErrorIs(t, f.svc.MoveTaskToColumn(ctx, card.ID, f.done.ID), ErrTaskAlreadyInTargetColumn)
	assert.ErrorIs(t, f.svc.MoveTaskToColumn(ctx, card.ID, "col-x"), ErrColumnNotInProject)
	assert.ErrorIs(t, f.svc.MoveTaskToColumn(ctx, card.ID, ""), ErrInvalidColumnID)
	assert.ErrorIs(t, f.svc.MoveTaskToColumn(ctx, "", f.done.ID), ErrInvalidTaskID)
}

// A legacy card without a column id already sits in the column its legacy
// status resolves to.
func TestMoveTaskToColumn_Legacy(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	legacy := f.backend.AddTask(f.project.ID, "Old card", "")

	assert.ErrorIs(t, f.svc.MoveTaskToColumn(ctx, legacy.ID, f.todo.ID), ErrTaskAlreadyInTargetColumn)
	require.NoError(t, f.svc.MoveTaskToColumn(ctx, legacy.ID, f.doing.ID))
	assert.Equal(t, f.doing.ID, f.backend.Task(legacy.ID).StatusID)
}

func TestGetBoard(t *testing.T) {
	f := setup(t)
	a := f.backend.AddTask(f.project.ID, "A", f.doing.ID)
	b := f.backend.AddTask(f.project.ID, "B", "")
	c := f.backend.AddTask(f.project.ID, "C", f.doing.ID)

	got, err := f.svc.GetBoard(context.Background(), f.project.ID)
	require.NoError(t, err)

	require.Len(t, got.Columns, 3)
	assert.Equal(t, 0, got.Orphans)
	assert.Equal(t, []types.TaskID{b.ID}, taskIDs(got.In(f.todo.ID)))
	assert.Equal(t, []types.TaskID{a.ID, c.ID}, taskIDs(got.In(f.doing.ID)))
	assert.Empty(t, got.In(f.done.ID))
}

func TestComments(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	card := f.backend.AddTask(f.project.ID, "Card", f.todo.ID)

	comment, err := f.svc.AddComment(ctx, card.ID, "  Looks good ")
	require.NoError(t, err)
	assert.Equal(t, "Looks good", comment.Body)

	comments, err := f.svc.ListComments(ctx, card.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	_, err = f.svc.AddComment(ctx, card.ID, "  ")
	assert.ErrorIs(t, err, ErrEmptyCommentMessage)
	_, err = f.svc.AddComment(ctx, card.ID, strings.Repeat("c", 1001))
	assert.ErrorIs(t, err, ErrCommentMessageTooLong)

	require.NoError(t, f.svc.DeleteComment(ctx, comment.ID))
	assert.ErrorIs(t, f.svc.DeleteComment(ctx, ""), ErrInvalidCommentID)
	assert.Empty(t, f.recorder.Events(), "comments do not refresh boards")
}

func taskIDs(tasks []*models.Task) []types.TaskID {
	ids := make([]types.TaskID, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}
