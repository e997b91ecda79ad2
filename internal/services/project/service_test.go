package project

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/api"
	"github.com/thenoetrevino/tablero/internal/testutil"
	"github.com/thenoetrevino/tablero/internal/types"
)

func setup(t *testing.T) (Service, *testutil.FakeBackend, *testutil.EventRecorder) {
	t.Helper()
	backend := testutil.NewFakeBackend(t)
	recorder := testutil.NewEventRecorder()
	client := api.NewClient(api.Config{BaseURL: backend.URL()}, &testutil.StaticToken{})
	return NewService(client, recorder), backend, recorder
}

func ptr[T any](v T) *T { return &v }

func TestCreateProject(t *testing.T) {
	svc, backend, recorder := setup(t)
	team := backend.AddTeam("Platform")

	project, err := svc.CreateProject(context.Background(), CreateProjectRequest{
		TeamID:      team.ID,
		Name:        " Web Platform ",
		Key:         "web",
		Description: "Public site",
	})
	require.NoError(t, err)

	assert.Equal(t, "Web Platform", project.Name)
	assert.Equal(t, "WEB", project.Key)
	assert.Len(t, backend.Columns(project.ID), 3, "backend seeds default columns")
	assert.Equal(t, []types.ProjectID{project.ID}, recorder.Projects())
}

func TestCreateProject_Validation(t *testing.T) {
	svc, backend, recorder := setup(t)
	team := backend.AddTeam("Platform")

	tests := []struct {
		name    string
		req     CreateProjectRequest
		wantErr error
	}{
		{"missing team", CreateProjectRequest{Name: "Web", Key: "WEB"}, ErrInvalidTeamID},
		{"empty name", CreateProjectRequest{TeamID: team.ID, Name: "  ", Key: "WEB"}, ErrEmptyName},
		{"long name", CreateProjectRequest{TeamID: team.ID, Name: strings.Repeat("n", 101), Key: "WEB"}, ErrNameTooLong},
		{"key too short", CreateProjectRequest{TeamID: team.ID, Name: "Web", Key: "W"}, ErrInvalidKey},
		{"key too long", CreateProjectRequest{TeamID: team.ID, Name: "Web", Key: "ABCDEFGHIJK"}, ErrInvalidKey},
		{"key with digits", CreateProjectRequest{TeamID: team.ID, Name: "Web", Key: "WEB2"}, ErrInvalidKey},
		{"underivable key", CreateProjectRequest{TeamID: team.ID, Name: "X"}, ErrInvalidKey},
		{"long description", CreateProjectRequest{TeamID: team.ID, Name: "Web", Key: "WEB", Description: strings.Repeat("d", 2001)}, ErrDescriptionTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProject(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, recorder.Events(), "failed validation publishes nothing")
}

func TestCreateProject_DuplicateKey(t *testing.T) {
	svc, backend, recorder := setup(t)
	team := backend.AddTeam("Platform")
	backend.AddProject(team.ID, "Web", "WEB")

	_, err := svc.CreateProject(context.Background(), CreateProjectRequest{TeamID: team.ID, Name: "Website", Key: "WEB"})
	assert.ErrorIs(t, err, api.ErrConflict)
	assert.Empty(t, recorder.Events())
}

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Web Platform", "WP"},
		{"mobile", "MOB"},
		{"Go", "GO"},
		{"customer-facing api gateway", "CFAG"},
		{"", ""},
		{"42", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveKey(tt.name), "DeriveKey(%q)", tt.name)
	}
}

func TestUpdateProject(t *testing.T) {
	svc, backend, recorder := setup(t)
	team := backend.AddTeam("Platform")
	existing := backend.AddProject(team.ID, "Web", "WEB")

	updated, err := svc.UpdateProject(context.Background(), UpdateProjectRequest{
		ID:          existing.ID,
		Name:        ptr(" Website "),
		Description: ptr("Marketing site"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Website", updated.Name)
	assert.Equal(t, "Marketing site", updated.Description)
	assert.Equal(t, []types.ProjectID{existing.ID}, recorder.Projects())

	_, err = svc.UpdateProject(context.Background(), UpdateProjectRequest{ID: existing.ID})
	assert.ErrorIs(t, err, ErrNothingToUpdate)

	_, err = svc.UpdateProject(context.Background(), UpdateProjectRequest{ID: existing.ID, Name: ptr("")})
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestDeleteProject(t *testing.T) {
	svc, backend, recorder := setup(t)
	team := backend.AddTeam("Platform")
	existing := backend.AddProject(team.ID, "Web", "WEB")

	require.NoError(t, svc.DeleteProject(context.Background(), existing.ID))
	assert.Equal(t, []types.ProjectID{existing.ID}, recorder.Projects())

	_, err := svc.GetProject(context.Background(), existing.ID)
	assert.True(t, api.IsNotFound(err))

	assert.ErrorIs(t, svc.DeleteProject(context.Background(), ""), ErrInvalidProjectID)
}

func TestListProjects(t *testing.T) {
	svc, backend, _ := setup(t)
	team := backend.AddTeam("Platform")
	other := backend.AddTeam("Other")
	backend.AddProject(team.ID, "Web", "WEB")
	backend.AddProject(team.ID, "Mobile", "MOB")
	backend.AddProject(other.ID, "Ops", "OPS")

	projects, err := svc.ListProjects(context.Background(), team.ID)
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	_, err = svc.ListProjects(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidTeamID)
}
