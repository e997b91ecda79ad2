package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// TestToken is the bearer credential the fake backend accepts
const TestToken = "test-token"

// RecordedRequest is one request the fake backend served
type RecordedRequest struct {
	Pattern string
	Path    string
	Query   string
	Body    string
}

// FakeBackend is an in-memory stand-in for the REST backend served over
// httptest. Routes can be made to fail or to block until released.
type FakeBackend struct {
	Server *httptest.Server

	mu       sync.Mutex
	nextID   int
	now      time.Time
	me       models.User
	teams    []*models.Team
	members  map[types.TeamID][]*models.TeamMember
	projects []*models.Project
	columns  map[types.ProjectID][]*models.Column
	tasks    []*models.Task
	comments []*models.Comment
	worklogs []*models.Worklog
	apiKeys  []*models.APIKey
	failures map[string]int
	gates    map[string]chan struct{}
	requests []RecordedRequest
}

// NewFakeBackend starts a fake backend and closes it on test cleanup
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	f := &FakeBackend{
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		me:       models.User{ID: "u-me", Email: "me@example.com", DisplayName: "Me"},
		members:  make(map[types.TeamID][]*models.TeamMember),
		columns:  make(map[types.ProjectID][]*models.Column),
		failures: make(map[string]int),
		gates:    make(map[string]chan struct{}),
	}

	mux := http.NewServeMux()
	f.routes(mux)
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the fake backend
func (f *FakeBackend) URL() string {
	return f.Server.URL
}

// Fail makes every request matching pattern (e.g. "PATCH /tasks/{id}/status")
// answer with status until Recover is called.
func (f *FakeBackend) Fail(pattern string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[pattern] = status
}

// Recover clears an injected failure
func (f *FakeBackend) Recover(pattern string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, pattern)
}

// Hold blocks requests matching pattern until the returned release func runs
func (f *FakeBackend) Hold(pattern string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[pattern] = ch
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.gates, pattern)
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Requests returns the requests served so far
func (f *FakeBackend) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// RequestsFor returns the served requests matching pattern
func (f *FakeBackend) RequestsFor(pattern string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range f.Requests() {
		if r.Pattern == pattern {
			out = append(out, r)
		}
	}
	return out
}

// ============================================================================
// SEEDING
// ============================================================================

func (f *FakeBackend) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

// AddTeam seeds a team owned by the signed-in user
func (f *FakeBackend) AddTeam(name string) *models.Team {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addTeam(name)
}

func (f *FakeBackend) addTeam(name string) *models.Team {
	team := &models.Team{ID: types.TeamID(f.id("team")), Name: name, CreatedAt: f.now, UpdatedAt: f.now}
	f.teams = append(f.teams, team)
	f.members[team.ID] = []*models.TeamMember{{
		UserID: f.me.ID, Email: f.me.Email, DisplayName: f.me.DisplayName, Role: models.RoleOwner, JoinedAt: f.now,
	}}
	return team
}

// AddProject seeds a project without columns
func (f *FakeBackend) AddProject(teamID types.TeamID, name, key string) *models.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addProject(teamID, name, key, "")
}

func (f *FakeBackend) addProject(teamID types.TeamID, name, key, description string) *models.Project {
	project := &models.Project{
		ID: types.ProjectID(f.id("proj")), TeamID: teamID, Name: name, Key: key,
		Description: description, CreatedAt: f.now, UpdatedAt: f.now,
	}
	f.projects = append(f.projects, project)
	return project
}

// AddColumn appends a column to the project's board
func (f *FakeBackend) AddColumn(projectID types.ProjectID, name, slug string) *models.Column {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addColumn(projectID, name, slug, "", false)
}

func (f *FakeBackend) addColumn(projectID types.ProjectID, name, slug, color string, completed bool) *models.Column {
	col := &models.Column{
		ID: types.ColumnID(f.id("col")), ProjectID: projectID, Name: name, Slug: slug,
		Color: color, Position: len(f.columns[projectID]), IsCompleted: completed,
	}
	f.columns[projectID] = append(f.columns[projectID], col)
	return col
}

// AddTask seeds a task. An empty columnID leaves it on the legacy status.
func (f *FakeBackend) AddTask(projectID types.ProjectID, title string, columnID types.ColumnID) *models.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	task := &models.Task{
		ID: types.TaskID(f.id("task")), ProjectID: projectID, Title: title, Priority: models.PriorityMedium,
		StatusID: columnID, Status: models.LegacyTodo, CreatedAt: f.now, UpdatedAt: f.now,
	}
	f.tasks = append(f.tasks, task)
	return task
}

// AddWorklog seeds a worklog entry
func (f *FakeBackend) AddWorklog(taskID types.TaskID, userID types.UserID, userName string, hours float64, date time.Time) *models.Worklog {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry := &models.Worklog{
		ID: types.WorklogID(f.id("wl")), TaskID: taskID, UserID: userID, UserName: userName,
		Hours: hours, Date: date, CreatedAt: f.now,
	}
	if task := f.findTask(taskID); task != nil {
		entry.TaskTitle = task.Title
	}
	f.worklogs = append(f.worklogs, entry)
	return entry
}

// Columns returns a copy of the project's columns in stored order
func (f *FakeBackend) Columns(projectID types.ProjectID) []models.Column {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Column, 0, len(f.columns[projectID]))
	for _, c := range f.columns[projectID] {
		out = append(out, *c)
	}
	return out
}

// Task returns a copy of the stored task, or nil
func (f *FakeBackend) Task(id types.TaskID) *models.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if task := f.findTask(id); task != nil {
		cp := *task
		return &cp
	}
	return nil
}

// SetTaskColumn changes a task's column behind the client's back
func (f *FakeBackend) SetTaskColumn(id types.TaskID, columnID types.ColumnID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if task := f.findTask(id); task != nil {
		task.StatusID = columnID
	}
}

// SetLegacyStatus clears a task's column and sets its legacy status, the
// shape of tasks created before columns existed
func (f *FakeBackend) SetLegacyStatus(id types.TaskID, status models.LegacyStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if task := f.findTask(id); task != nil {
		task.StatusID = ""
		task.Status = status
	}
}

func (f *FakeBackend) findTask(id types.TaskID) *models.Task {
	for _, task := range f.tasks {
		if task.ID == id {
			return task
		}
	}
	return nil
}

func (f *FakeBackend) findColumn(id types.ColumnID) *models.Column {
	for _, cols := range f.columns {
		for _, c := range cols {
			if c.ID == id {
				return c
			}
		}
	}
	return nil
}

// ============================================================================
// ROUTING
// ============================================================================

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func (f *FakeBackend) handle(mux *http.ServeMux, pattern string, fn handlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			var raw json.RawMessage
			_ = json.NewDecoder(r.Body).Decode(&raw)
			body = raw
		}

		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Pattern: pattern, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body),
		})
		gate := f.gates[pattern]
		f.mu.Unlock()

		if gate != nil {
			<-gate
		}

		if r.Header.Get("Authorization") != "Bearer "+TestToken {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}

		f.mu.Lock()
		status, failing := f.failures[pattern]
		f.mu.Unlock()
		if failing {
			writeError(w, status, "injected", "injected failure")
			return
		}

		r.Body = readCloser{strings.NewReader(string(body))}
		f.mu.Lock()
		defer f.mu.Unlock()
		fn(w, r)
	})
}

type readCloser struct{ *strings.Reader }

func (readCloser) Close() error { return nil }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"code": code, "message": message})
}

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func (f *FakeBackend) routes(mux *http.ServeMux) {
	f.handle(mux, "GET /me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.me)
	})

	// teams
	f.handle(mux, "GET /teams", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.teams)
	})
	f.handle(mux, "POST /teams", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Name string }
		if !decode(r, &in) || in.Name == "" {
			writeError(w, http.StatusBadRequest, "validation", "name is required")
			return
		}
		writeJSON(w, http.StatusCreated, f.addTeam(in.Name))
	})
	f.handle(mux, "GET /teams/{id}", func(w http.ResponseWriter, r *http.Request) {
		if team := f.team(types.TeamID(r.PathValue("id"))); team != nil {
			writeJSON(w, http.StatusOK, team)
			return
		}
		writeError(w, http.StatusNotFound, "not_found", "team not found")
	})
	f.handle(mux, "PATCH /teams/{id}", func(w http.ResponseWriter, r *http.Request) {
		team := f.team(types.TeamID(r.PathValue("id")))
		if team == nil {
			writeError(w, http.StatusNotFound, "not_found", "team not found")
			return
		}
		var in struct{ Name string }
		if decode(r, &in) && in.Name != "" {
			team.Name = in.Name
		}
		writeJSON(w, http.StatusOK, team)
	})
	f.handle(mux, "DELETE /teams/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := types.TeamID(r.PathValue("id"))
		for i, team := range f.teams {
			if team.ID == id {
				f.teams = append(f.teams[:i], f.teams[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeError(w, http.StatusNotFound, "not_found", "team not found")
	})
	f.handle(mux, "GET /teams/{id}/members", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.members[types.TeamID(r.PathValue("id"))])
	})
	f.handle(mux, "POST /teams/{id}/members", func(w http.ResponseWriter, r *http.Request) {
		id := types.TeamID(r.PathValue("id"))
		var in struct {
			Email string
			Role  models.Role
		}
		if !decode(r, &in) {
			writeError(w, http.StatusBadRequest, "validation", "bad body")
			return
		}
		for _, m := range f.members[id] {
			if m.Email == in.Email {
				writeError(w, http.StatusConflict, "conflict", "already a member")
				return
			}
		}
		member := &models.TeamMember{UserID: types.UserID(f.id("user")), Email: in.Email, Role: in.Role, JoinedAt: f.now}
		f.members[id] = append(f.members[id], member)
		writeJSON(w, http.StatusCreated, member)
	})
	f.handle(mux, "DELETE /teams/{id}/members/{userId}", func(w http.ResponseWriter, r *http.Request) {
		id := types.TeamID(r.PathValue("id"))
		userID := types.UserID(r.PathValue("userId"))
		for i, m := range f.members[id] {
			if m.UserID == userID {
				f.members[id] = append(f.members[id][:i], f.members[id][i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeError(w, http.StatusNotFound, "not_found", "member not found")
	})

	// projects
	f.handle(mux, "GET /teams/{id}/projects", func(w http.ResponseWriter, r *http.Request) {
		id := types.TeamID(r.PathValue("id"))
		out := []*models.Project{}
		for _, p := range f.projects {
			if p.TeamID == id {
				out = append(out, p)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
	f.handle(mux, "POST /teams/{id}/projects", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Name, Key, Description string }
		if !decode(r, &in) {
			writeError(w, http.StatusBadRequest, "validation", "bad body")
			return
		}
		for _, p := range f.projects {
			if p.Key == in.Key {
				writeError(w, http.StatusConflict, "conflict", "project key already in use")
				return
			}
		}
		project := f.addProject(types.TeamID(r.PathValue("id")), in.Name, in.Key, in.Description)
		f.addColumn(project.ID, "Todo", "todo", "", false)
		f.addColumn(project.ID, "In Progress", "in_progress", "", false)
		f.addColumn(project.ID, "Done", "done", "", true)
		writeJSON(w, http.StatusCreated, project)
	})
	f.handle(mux, "GET /projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		if p := f.project(types.ProjectID(r.PathValue("id"))); p != nil {
			writeJSON(w, http.StatusOK, p)
			return
		}
		writeError(w, http.StatusNotFound, "not_found", "project not found")
	})
	f.handle(mux, "PATCH /projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		p := f.project(types.ProjectID(r.PathValue("id")))
		if p == nil {
			writeError(w, http.StatusNotFound, "not_found", "project not found")
			return
		}
		var in struct{ Name, Description *string }
		if decode(r, &in) {
			if in.Name != nil {
				p.Name = *in.Name
			}
			if in.Description != nil {
				p.Description = *in.Description
			}
		}
		writeJSON(w, http.StatusOK, p)
	})
	f.handle(mux, "DELETE /projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := types.ProjectID(r.PathValue("id"))
		for i, p := range f.projects {
			if p.ID == id {
				f.projects = append(f.projects[:i], f.projects[i+1:]...)
				delete(f.columns, id)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeError(w, http.StatusNotFound, "not_found", "project not found")
	})

	// statuses
	f.handle(mux, "GET /projects/{id}/statuses", func(w http.ResponseWriter, r *http.Request) {
		id := types.ProjectID(r.PathValue("id"))
		if f.project(id) == nil {
			writeError(w, http.StatusNotFound, "not_found", "project not found")
			return
		}
		out := []*models.Column{}
		for _, c := range f.columns[id] {
			cp := *c
			out = append(out, &cp)
		}
		writeJSON(w, http.StatusOK, out)
	})
	f.handle(mux, "POST /projects/{id}/statuses", func(w http.ResponseWriter, r *http.Request) {
		id := types.ProjectID(r.PathValue("id"))
		var in struct {
			Name, Slug, Color string
			IsCompleted       bool
		}
		if !decode(r, &in) {
			writeError(w, http.StatusBadRequest, "validation", "bad body")
			return
		}
		for _, c := range f.columns[id] {
			if c.Slug == in.Slug {
				writeError(w, http.StatusConflict, "conflict", "slug already in use")
				return
			}
		}
		writeJSON(w, http.StatusCreated, f.addColumn(id, in.Name, in.Slug, in.Color, in.IsCompleted))
	})
	f.handle(mux, "PATCH /statuses/{id}", func(w http.ResponseWriter, r *http.Request) {
		col := f.findColumn(types.ColumnID(r.PathValue("id")))
		if col == nil {
			writeError(w, http.StatusNotFound, "not_found", "status not found")
			return
		}
		var in struct {
			Name, Slug, Color *string
			IsCompleted       *bool
		}
		if decode(r, &in) {
			if in.Name != nil {
				col.Name = *in.Name
			}
			if in.Slug != nil {
				col.Slug = *in.Slug
			}
			if in.Color != nil {
				col.Color = *in.Color
			}
			if in.IsCompleted != nil {
				col.IsCompleted = *in.IsCompleted
			}
		}
		writeJSON(w, http.StatusOK, col)
	})
	f.handle(mux, "DELETE /statuses/{id}", func(w http.ResponseWriter, r *http.Request) {
		col := f.findColumn(types.ColumnID(r.PathValue("id")))
		if col == nil {
			writeError(w, http.StatusNotFound, "not_found", "status not found")
			return
		}
		cols := f.columns[col.ProjectID]
		remaining := make([]*models.Column, 0, len(cols))
		for _, c := range cols {
			if c.ID != col.ID {
				c.Position = len(remaining)
				remaining = append(remaining, c)
			}
		}
		fallback := types.ColumnID(r.URL.Query().Get("fallbackId"))
		if fallback.IsZero() && len(remaining) > 0 {
			fallback = remaining[0].ID
		}
		for _, task := range f.tasks {
			if task.StatusID == col.ID {
				task.StatusID = fallback
			}
		}
		f.columns[col.ProjectID] = remaining
		w.WriteHeader(http.StatusNoContent)
	})
	f.handle(mux, "PUT /projects/{id}/statuses/order", func(w http.ResponseWriter, r *http.Request) {
		id := types.ProjectID(r.PathValue("id"))
		var in struct {
			StatusIDs []types.ColumnID `json:"statusIds"`
		}
		if !decode(r, &in) || len(in.StatusIDs) != len(f.columns[id]) {
			writeError(w, http.StatusBadRequest, "validation", "order must list every status")
			return
		}
		byID := make(map[types.ColumnID]*models.Column, len(in.StatusIDs))
		for _, c := range f.columns[id] {
			byID[c.ID] = c
		}
		ordered := make([]*models.Column, 0, len(in.StatusIDs))
		for i, cid := range in.StatusIDs {
			c, ok := byID[cid]
			if !ok {
				writeError(w, http.StatusBadRequest, "validation", "unknown status "+cid.String())
				return
			}
			c.Position = i
			ordered = append(ordered, c)
		}
		f.columns[id] = ordered
		w.WriteHeader(http.StatusNoContent)
	})

	// tasks
	f.handle(mux, "GET /projects/{id}/tasks", func(w http.ResponseWriter, r *http.Request) {
		id := types.ProjectID(r.PathValue("id"))
		out := []*models.Task{}
		for _, task := range f.tasks {
			if task.ProjectID == id {
				cp := *task
				out = append(out, &cp)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
	f.handle(mux, "POST /projects/{id}/tasks", func(w http.ResponseWriter, r *http.Request) {
		var task models.Task
		if !decode(r, &task) {
			writeError(w, http.StatusBadRequest, "validation", "bad body")
			return
		}
		task.ID = types.TaskID(f.id("task"))
		task.ProjectID = types.ProjectID(r.PathValue("id"))
		if task.StatusID.IsZero() && len(f.columns[task.ProjectID]) > 0 {
			task.StatusID = f.columns[task.ProjectID][0].ID
		}
		task.CreatedAt, task.UpdatedAt = f.now, f.now
		f.tasks = append(f.tasks, &task)
		writeJSON(w, http.StatusCreated, task)
	})
	f.handle(mux, "GET /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		if task := f.findTask(types.TaskID(r.PathValue("id"))); task != nil {
			writeJSON(w, http.StatusOK, task)
			return
		}
		writeError(w, http.StatusNotFound, "not_found", "task not found")
	})
	f.handle(mux, "PATCH /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		task := f.findTask(types.TaskID(r.PathValue("id")))
		if task == nil {
			writeError(w, http.StatusNotFound, "not_found", "task not found")
			return
		}
		var in struct {
			Title, Description *string
			Priority           *models.Priority
			AssigneeID         *types.UserID
			DueDate            *time.Time
			EstimatedHours     *float64
			ActualHours        *float64
		}
		if decode(r, &in) {
			if in.Title != nil {
				task.Title = *in.Title
			}
			if in.Description != nil {
				task.Description = *in.Description
			}
			if in.Priority != nil {
				task.Priority = *in.Priority
			}
			if in.AssigneeID != nil {
				task.AssigneeID = *in.AssigneeID
			}
			if in.DueDate != nil {
				task.DueDate = in.DueDate
			}
			if in.EstimatedHours != nil {
				task.EstimatedHours = in.EstimatedHours
			}
			if in.ActualHours != nil {
				task.ActualHours = in.ActualHours
			}
		}
		writeJSON(w, http.StatusOK, task)
	})
	f.handle(mux, "PATCH /tasks/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		task := f.findTask(types.TaskID(r.PathValue("id")))
		if task == nil {
			writeError(w, http.StatusNotFound, "not_found", "task not found")
			return
		}
		var in struct {
			StatusID types.ColumnID `json:"statusId"`
		}
		if !decode(r, &in) {
			writeError(w, http.StatusBadRequest, "validation", "bad body")
			return
		}
		col := f.findColumn(in.StatusID)
		if col == nil || col.ProjectID != task.ProjectID {
			writeError(w, http.StatusBadRequest, "validation", "status does not belong to project")
			return
		}
		task.StatusID = in.StatusID
		w.WriteHeader(http.StatusNoContent)
	})
	f.handle(mux, "DELETE /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := types.TaskID(r.PathValue("id"))
		for i, task := range f.tasks {
			if task.ID == id {
				f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeError(w, http.StatusNotFound, "not_found", "task not found")
	})

	// comments
	f.handle(mux, "GET /tasks/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		id := types.TaskID(r.PathValue("id"))
		out := []*models.Comment{}
		for _, c := range f.comments {
			if c.TaskID == id {
				out = append(out, c)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
	f.handle(mux, "POST /tasks/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Body string }
		if !decode(r, &in) {
			writeError(w, http.StatusBadRequest, "validation", "bad body")
			return
		}
		comment := &models.Comment{
			ID: types.CommentID(f.id("cmt")), TaskID: types.TaskID(r.PathValue("id")),
			AuthorID: f.me.ID, Author: f.me.DisplayName, Body: in.Body, CreatedAt: f.now,
		}
		f.comments = append(f.comments, comment)
		writeJSON(w, http.StatusCreated, comment)
	})
	f.handle(mux, "DELETE /comments/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := types.CommentID(r.PathValue("id"))
		for i, c := range f.comments {
			if c.ID == id {
				f.comments = append(f.comments[:i], f.comments[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeError(w, http.StatusNotFound, "not_found", "comment not found")
	})

	// worklogs
	f.handle(mux, "GET /projects/{id}/worklogs", func(w http.ResponseWriter, r *http.Request) {
		id := types.ProjectID(r.PathValue("id"))
		from, _ := time.Parse("2006-01-02", r.URL.Query().Get("from"))
		to, _ := time.Parse("2006-01-02", r.URL.Query().Get("to"))
		user := types.UserID(r.URL.Query().Get("userId"))
		out := []*models.Worklog{}
		for _, wl := range f.worklogs {
			task := f.findTask(wl.TaskID)
			if task == nil || task.ProjectID != id {
				continue
			}
			if user != "" && wl.UserID != user {
				continue
			}
			if !from.IsZero() && wl.Date.Before(from) {
				continue
			}
			if !to.IsZero() && wl.Date.After(to.Add(24*time.Hour-time.Nanosecond)) {
				continue
			}
			out = append(out, wl)
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
		writeJSON(w, http.StatusOK, out)
	})
	f.handle(mux, "POST /tasks/{id}/worklogs", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Hours float64
			Date  time.Time
			Note  string
		}
		if !decode(r, &in) {
			writeError(w, http.StatusBadRequest, "validation", "bad body")
			return
		}
		taskID := types.TaskID(r.PathValue("id"))
		entry := &models.Worklog{
			ID: types.WorklogID(f.id("wl")), TaskID: taskID, UserID: f.me.ID, UserName: f.me.DisplayName,
			Hours: in.Hours, Date: in.Date, Note: in.Note, CreatedAt: f.now,
		}
		if task := f.findTask(taskID); task != nil {
			entry.TaskTitle = task.Title
		}
		f.worklogs = append(f.worklogs, entry)
		writeJSON(w, http.StatusCreated, entry)
	})
	f.handle(mux, "DELETE /worklogs/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := types.WorklogID(r.PathValue("id"))
		for i, wl := range f.worklogs {
			if wl.ID == id {
				f.worklogs = append(f.worklogs[:i], f.worklogs[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeError(w, http.StatusNotFound, "not_found", "worklog not found")
	})

	// api keys
	f.handle(mux, "GET /api-keys", func(w http.ResponseWriter, r *http.Request) {
		out := make([]models.APIKey, 0, len(f.apiKeys))
		for _, k := range f.apiKeys {
			cp := *k
			cp.Secret = ""
			out = append(out, cp)
		}
		writeJSON(w, http.StatusOK, out)
	})
	f.handle(mux, "POST /api-keys", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Name string }
		if !decode(r, &in) {
			writeError(w, http.StatusBadRequest, "validation", "bad body")
			return
		}
		id := f.id("key")
		key := &models.APIKey{
			ID: types.APIKeyID(id), Name: in.Name, Prefix: "tbl_" + id,
			Secret: "tbl_" + id + "_secret", CreatedAt: f.now,
		}
		f.apiKeys = append(f.apiKeys, key)
		writeJSON(w, http.StatusCreated, key)
	})
	f.handle(mux, "DELETE /api-keys/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := types.APIKeyID(r.PathValue("id"))
		for i, k := range f.apiKeys {
			if k.ID == id {
				f.apiKeys = append(f.apiKeys[:i], f.apiKeys[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writeError(w, http.StatusNotFound, "not_found", "api key not found")
	})
}

func (f *FakeBackend) team(id types.TeamID) *models.Team {
	for _, team := range f.teams {
		if team.ID == id {
			return team
		}
	}
	return nil
}

func (f *FakeBackend) project(id types.ProjectID) *models.Project {
	for _, p := range f.projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// StaticToken is a TokenSource that always returns TestToken and counts
// invalidations.
type StaticToken struct {
	mu          sync.Mutex
	invalidated int
}

// Token returns TestToken
func (s *StaticToken) Token(_ context.Context) (string, error) {
	return TestToken, nil
}

// Invalidate records the call
func (s *StaticToken) Invalidate(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated++
	return nil
}

// Invalidations returns how many times Invalidate ran
func (s *StaticToken) Invalidations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidated
}
