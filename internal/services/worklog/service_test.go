package worklog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/api"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/testutil"
	"github.com/thenoetrevino/tablero/internal/types"
)

var now = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func setup(t *testing.T) (Service, *testutil.FakeBackend, *testutil.EventRecorder, *models.Project) {
	t.Helper()
	backend := testutil.NewFakeBackend(t)
	recorder := testutil.NewEventRecorder()
	client := api.NewClient(api.Config{BaseURL: backend.URL()}, &testutil.StaticToken{})

	team := backend.AddTeam("Platform")
	project := backend.AddProject(team.ID, "Web", "WEB")
	svc := NewService(client, recorder, WithClock(func() time.Time { return now }))
	return svc, backend, recorder, project
}

func TestAddWorklog(t *testing.T) {
	svc, backend, recorder, project := setup(t)
	task := backend.AddTask(project.ID, "Card", "")

	entry, err := svc.AddWorklog(context.Background(), AddWorklogRequest{TaskID: task.ID, Hours: 1.5, Note: " pairing "})
	require.NoError(t, err)
	assert.Equal(t, day(10), entry.Date, "zero date means today")
	assert.Equal(t, "pairing", entry.Note)
	assert.Equal(t, []types.ProjectID{project.ID}, recorder.Projects())
}

func TestAddWorklog_Validation(t *testing.T) {
	svc, backend, _, project := setup(t)
	task := backend.AddTask(project.ID, "Card", "")

	tests := []struct {
		name    string
		req     AddWorklogRequest
		wantErr error
	}{
		{"missing task", AddWorklogRequest{Hours: 1}, ErrInvalidTaskID},
		{"zero hours", AddWorklogRequest{TaskID: task.ID}, ErrInvalidHours},
		{"too many hours", AddWorklogRequest{TaskID: task.ID, Hours: 24.5}, ErrInvalidHours},
		{"future date", AddWorklogRequest{TaskID: task.ID, Hours: 1, Date: day(11)}, ErrFutureDate},
		{"long note", AddWorklogRequest{TaskID: task.ID, Hours: 1, Note: strings.Repeat("n", 501)}, ErrNoteTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddWorklog(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := svc.AddWorklog(context.Background(), AddWorklogRequest{TaskID: "task-missing", Hours: 1})
	assert.True(t, api.IsNotFound(err))
}

func TestSummarize(t *testing.T) {
	logs := []*models.Worklog{
		{TaskID: "t1", TaskTitle: "Login", UserID: "u1", UserName: "bea", Hours: 2},
		{TaskID: "t2", TaskTitle: "Signup", UserID: "u2", UserName: "Ana", Hours: 3},
		{TaskID: "t1", TaskTitle: "Login", UserID: "u2", UserName: "Ana", Hours: 1},
		{TaskID: "t3", TaskTitle: "Billing", UserID: "u1", UserName: "bea", Hours: 2},
		{TaskID: "t4", UserID: "u3", Hours: 0.5},
	}

	report := Summarize(logs)

	assert.InDelta(t, 8.5, report.TotalHours, 0.001)
	assert.Equal(t, 5, report.Entries)
	assert.Equal(t, []UserHours{
		{UserID: "u2", Name: "Ana", Hours: 4},
		{UserID: "u1", Name: "bea", Hours: 4},
		{UserID: "u3", Name: "u3", Hours: 0.5},
	}, report.ByUser, "ties sort by name, case-insensitively")
	assert.Equal(t, []TaskHours{
		{TaskID: "t1", Title: "Login", Hours: 3},
		{TaskID: "t2", Title: "Signup", Hours: 3},
		{TaskID: "t3", Title: "Billing", Hours: 2},
		{TaskID: "t4", Title: "t4", Hours: 0.5},
	}, report.ByTask)
}

func TestSummarize_Empty(t *testing.T) {
	report := Summarize(nil)
	assert.Zero(t, report.TotalHours)
	assert.NotNil(t, report.ByUser)
	assert.NotNil(t, report.ByTask)
}

func TestReport(t *testing.T) {
	svc, backend, _, project := setup(t)
	login := backend.AddTask(project.ID, "Login", "")
	signup := backend.AddTask(project.ID, "Signup", "")

	backend.AddWorklog(login.ID, "u1", "Ana", 2, day(1))
	backend.AddWorklog(signup.ID, "u2", "Ben", 5, day(3))
	backend.AddWorklog(login.ID, "u2", "Ben", 1, day(5))
	backend.AddWorklog(login.ID, "u1", "Ana", 8, day(9)) // outside the range

	report, err := svc.Report(context.Background(), ListRequest{ProjectID: project.ID, From: day(1), To: day(5)})
	require.NoError(t, err)

	assert.InDelta(t, 8.0, report.TotalHours, 0.001)
	assert.Equal(t, 3, report.Entries)
	require.Len(t, report.ByUser, 2)
	assert.Equal(t, "Ben", report.ByUser[0].Name)
	assert.InDelta(t, 6.0, report.ByUser[0].Hours, 0.001)
	require.Len(t, report.ByTask, 2)
	assert.Equal(t, "Signup", report.ByTask[0].Title)
	require.NotNil(t, report.From)
	assert.Equal(t, day(1), *report.From)
}

func TestReport_InvalidRange(t *testing.T) {
	svc, _, _, project := setup(t)
	_, err := svc.Report(context.Background(), ListRequest{ProjectID: project.ID, From: day(5), To: day(1)})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.Report(context.Background(), ListRequest{})
	assert.ErrorIs(t, err, ErrInvalidProjectID)
}

func TestDeleteWorklog(t *testing.T) {
	svc, backend, recorder, project := setup(t)
	task := backend.AddTask(project.ID, "Card", "")
	entry := backend.AddWorklog(task.ID, "u1", "Ana", 1, day(2))

	require.NoError(t, svc.DeleteWorklog(context.Background(), project.ID, entry.ID))
	assert.Equal(t, []types.ProjectID{project.ID}, recorder.Projects())

	logs, err := svc.ListWorklogs(context.Background(), ListRequest{ProjectID: project.ID})
	require.NoError(t, err)
	assert.Empty(t, logs)

	assert.ErrorIs(t, svc.DeleteWorklog(context.Background(), project.ID, ""), ErrInvalidWorklogID)
}
