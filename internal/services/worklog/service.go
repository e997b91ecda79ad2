// Package worklog logs time against tasks and summarizes it per user and
// per task.
package worklog

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/thenoetrevino/tablero/internal/api"
	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Service defines all worklog operations
type Service interface {
	ListWorklogs(ctx context.Context, req ListRequest) ([]*models.Worklog, error)
	AddWorklog(ctx context.Context, req AddWorklogRequest) (*models.Worklog, error)
	DeleteWorklog(ctx context.Context, projectID types.ProjectID, id types.WorklogID) error
	Report(ctx context.Context, req ListRequest) (*Report, error)
}

// ListRequest selects a project's worklogs. Zero dates are open ends.
type ListRequest struct {
	ProjectID types.ProjectID
	From      time.Time
	To        time.Time
	UserID    types.UserID
}

// AddWorklogRequest logs hours on a task. A zero Date means today.
type AddWorklogRequest struct {
	TaskID types.TaskID
	Hours  float64
	Date   time.Time
	Note   string
}

// Report is the aggregated time for a date range
type Report struct {
	ProjectID  types.ProjectID `json:"projectId"`
	From       *time.Time      `json:"from,omitempty"`
	To         *time.Time      `json:"to,omitempty"`
	TotalHours float64         `json:"totalHours"`
	Entries    int             `json:"entries"`
	ByUser     []UserHours     `json:"byUser"`
	ByTask     []TaskHours     `json:"byTask"`
}

// UserHours is one user's total in a Report
type UserHours struct {
	UserID types.UserID `json:"userId"`
	Name   string       `json:"name"`
	Hours  float64      `json:"hours"`
}

// TaskHours is one task's total in a Report
type TaskHours struct {
	TaskID types.TaskID `json:"taskId"`
	Title  string       `json:"title"`
	Hours  float64      `json:"hours"`
}

type backend interface {
	GetTask(ctx context.Context, id types.TaskID) (*models.Task, error)
	ListWorklogs(ctx context.Context, projectID types.ProjectID, filter api.WorklogFilter) ([]*models.Worklog, error)
	AddWorklog(ctx context.Context, taskID types.TaskID, in api.WorklogInput) (*models.Worklog, error)
	DeleteWorklog(ctx context.Context, id types.WorklogID) error
}

type service struct {
	client      backend
	eventClient events.EventPublisher
	now         func() time.Time
}

// Option configures the service
type Option func(*service)

// WithClock overrides the time source used for "today"
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// NewService creates a new worklog service. eventClient may be nil.
func NewService(client backend, eventClient events.EventPublisher, opts ...Option) Service {
	s := &service{client: client, eventClient: eventClient, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) ListWorklogs(ctx context.Context, req ListRequest) ([]*models.Worklog, error) {
	if err := validateRange(req); err != nil {
		return nil, err
	}
	return s.client.ListWorklogs(ctx, req.ProjectID, api.WorklogFilter{From: req.From, To: req.To, UserID: req.UserID})
}

// AddWorklog logs time for the signed-in user
func (s *service) AddWorklog(ctx context.Context, req AddWorklogRequest) (*models.Worklog, error) {
	if req.TaskID == "" {
		return nil, ErrInvalidTaskID
	}
	if req.Hours <= 0 || req.Hours > 24 {
		return nil, ErrInvalidHours
	}
	req.Note = strings.TrimSpace(req.Note)
	if utf8.RuneCountInString(req.Note) > 500 {
		return nil, ErrNoteTooLong
	}

	today := truncateDay(s.now())
	date := today
	if !req.Date.IsZero() {
		date = truncateDay(req.Date)
	}
	if date.After(today) {
		return nil, ErrFutureDate
	}

	task, err := s.client.GetTask(ctx, req.TaskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	entry, err := s.client.AddWorklog(ctx, req.TaskID, api.WorklogInput{Hours: req.Hours, Date: date, Note: req.Note})
	if err != nil {
		return nil, fmt.Errorf("failed to add worklog: %w", err)
	}

	events.ProjectChanged(ctx, s.eventClient, task.ProjectID)
	return entry, nil
}

func (s *service) DeleteWorklog(ctx context.Context, projectID types.ProjectID, id types.WorklogID) error {
	if id == "" {
		return ErrInvalidWorklogID
	}
	if err := s.client.DeleteWorklog(ctx, id); err != nil {
		return fmt.Errorf("failed to delete worklog: %w", err)
	}

	if projectID != "" {
		events.ProjectChanged(ctx, s.eventClient, projectID)
	}
	return nil
}

// Report sums the range's worklogs per user and per task, largest first
func (s *service) Report(ctx context.Context, req ListRequest) (*Report, error) {
	logs, err := s.ListWorklogs(ctx, req)
	if err != nil {
		return nil, err
	}
	report := Summarize(logs)
	report.ProjectID = req.ProjectID
	if !req.From.IsZero() {
		from := truncateDay(req.From)
		report.From = &from
	}
	if !req.To.IsZero() {
		to := truncateDay(req.To)
		report.To = &to
	}
	return report, nil
}

// Summarize aggregates worklogs. Ties in hours are ordered by name.
func Summarize(logs []*models.Worklog) *Report {
	users := map[types.UserID]*UserHours{}
	tasks := map[types.TaskID]*TaskHours{}
	report := &Report{ByUser: []UserHours{}, ByTask: []TaskHours{}}

	for _, wl := range logs {
		report.TotalHours += wl.Hours
		report.Entries++

		u, ok := users[wl.UserID]
		if !ok {
			name := wl.UserName
			if name == "" {
				name = wl.UserID.String()
			}
			u = &UserHours{UserID: wl.UserID, Name: name}
			users[wl.UserID] = u
		}
		u.Hours += wl.Hours

		t, ok := tasks[wl.TaskID]
		if !ok {
			title := wl.TaskTitle
			if title == "" {
				title = wl.TaskID.String()
			}
			t = &TaskHours{TaskID: wl.TaskID, Title: title}
			tasks[wl.TaskID] = t
		}
		t.Hours += wl.Hours
	}

	for _, u := range users {
		report.ByUser = append(report.ByUser, *u)
	}
	for _, t := range tasks {
		report.ByTask = append(report.ByTask, *t)
	}

	slices.SortFunc(report.ByUser, func(a, b UserHours) int {
		return byHoursThenName(a.Hours, b.Hours, a.Name, b.Name)
	})
	slices.SortFunc(report.ByTask, func(a, b TaskHours) int {
		return byHoursThenName(a.Hours, b.Hours, a.Title, b.Title)
	})
	return report
}

func byHoursThenName(ah, bh float64, an, bn string) int {
	if c := cmp.Compare(bh, ah); c != 0 {
		return c
	}
	return cmp.Compare(strings.ToLower(an), strings.ToLower(bn))
}

func validateRange(req ListRequest) error {
	if req.ProjectID == "" {
		return ErrInvalidProjectID
	}
	if !req.From.IsZero() && !req.To.IsZero() && truncateDay(req.From).After(truncateDay(req.To)) {
		return ErrInvalidRange
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
