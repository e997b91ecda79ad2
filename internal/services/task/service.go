package task

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/thenoetrevino/tablero/internal/api"
	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Service defines all task-related business operations
type Service interface {
	// Read operations
	ListTasks(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error)
	GetTask(ctx context.Context, id types.TaskID) (*models.Task, error)
	GetBoard(ctx context.Context, projectID types.ProjectID) (*Board, error)

	// Write operations
	CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, id types.TaskID) error

	// Task movements
	MoveTaskToColumn(ctx context.Context, id types.TaskID, columnID types.ColumnID) error

	// Comments
	ListComments(ctx context.Context, id types.TaskID) ([]*models.Comment, error)
	AddComment(ctx context.Context, id types.TaskID, body string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id types.CommentID) error
}

// CreateTaskRequest encapsulates all data needed to create a task.
// Priority defaults to medium; an empty ColumnID lets the backend pick the
// first column.
type CreateTaskRequest struct {
	ProjectID      types.ProjectID
	Title          string
	Description    string
	Priority       string
	ColumnID       types.ColumnID
	AssigneeID     types.UserID
	DueDate        *time.Time
	EstimatedHours *float64
}

// UpdateTaskRequest encapsulates all data needed to update a task
// Fields with pointers are optional - nil means don't update
type UpdateTaskRequest struct {
	ID             types.TaskID
	Title          *string
	Description    *string
	Priority       *string
	AssigneeID     *types.UserID
	DueDate        *time.Time
	EstimatedHours *float64
	ActualHours    *float64
}

// Board is a project's columns with every task bucketed by effective column
type Board struct {
	Columns []*models.Column
	board.Grouping
}

type backend interface {
	ListStatuses(ctx context.Context, projectID types.ProjectID) ([]*models.Column, error)
	ListTasks(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error)
	GetTask(ctx context.Context, id types.TaskID) (*models.Task, error)
	CreateTask(ctx context.Context, projectID types.ProjectID, in api.TaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, id types.TaskID, in api.TaskPatch) (*models.Task, error)
	UpdateTaskStatus(ctx context.Context, id types.TaskID, columnID types.ColumnID) error
	DeleteTask(ctx context.Context, id types.TaskID) error
	ListComments(ctx context.Context, taskID types.TaskID) ([]*models.Comment, error)
	AddComment(ctx context.Context, taskID types.TaskID, body string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id types.CommentID) error
}

type service struct {
	client      backend
	eventClient events.EventPublisher
}

// NewService creates a new task service. eventClient may be nil.
func NewService(client backend, eventClient events.EventPublisher) Service {
	return &service{client: client, eventClient: eventClient}
}

func (s *service) ListTasks(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error) {
	if projectID == "" {
		return nil, ErrInvalidProjectID
	}
	return s.client.ListTasks(ctx, projectID)
}

func (s *service) GetTask(ctx context.Context, id types.TaskID) (*models.Task, error) {
	if id == "" {
		return nil, ErrInvalidTaskID
	}
	return s.client.GetTask(ctx, id)
}

// GetBoard fetches columns and tasks and groups them the way the board
// renders them
func (s *service) GetBoard(ctx context.Context, projectID types.ProjectID) (*Board, error) {
	if projectID == "" {
		return nil, ErrInvalidProjectID
	}
	columns, err := s.client.ListStatuses(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	tasks, err := s.client.ListTasks(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return &Board{Columns: columns, Grouping: board.Group(tasks, columns)}, nil
}

// CreateTask handles task creation with validation
func (s *service) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	priority := models.PriorityMedium
	if req.Priority != "" {
		p, err := models.ParsePriority(req.Priority)
		if err != nil {
			return nil, ErrInvalidPriority
		}
		priority = p
	}

	if !req.ColumnID.IsZero() {
		if err := s.checkColumn(ctx, req.ProjectID, req.ColumnID); err != nil {
			return nil, err
		}
	}

	task, err := s.client.CreateTask(ctx, req.ProjectID, api.TaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       priority,
		StatusID:       req.ColumnID,
		AssigneeID:     req.AssigneeID,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	events.ProjectChanged(ctx, s.eventClient, req.ProjectID)
	return task, nil
}

// UpdateTask changes task details. Column moves go through MoveTaskToColumn.
func (s *service) UpdateTask(ctx context.Context, req UpdateTaskRequest) (*models.Task, error) {
	if req.ID == "" {
		return nil, ErrInvalidTaskID
	}

	patch := api.TaskPatch{
		Description:    req.Description,
		AssigneeID:     req.AssigneeID,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if req.Description != nil && utf8.RuneCountInString(*req.Description) > 10000 {
		return nil, ErrDescriptionTooLong
	}
	if req.Priority != nil {
		p, err := models.ParsePriority(*req.Priority)
		if err != nil {
			return nil, ErrInvalidPriority
		}
		patch.Priority = &p
	}
	if negative(req.EstimatedHours) || negative(req.ActualHours) {
		return nil, ErrInvalidHours
	}
	if patch == (api.TaskPatch{}) {
		return nil, ErrNothingToUpdate
	}

	task, err := s.client.UpdateTask(ctx, req.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	events.ProjectChanged(ctx, s.eventClient, task.ProjectID)
	return task, nil
}

func (s *service) DeleteTask(ctx context.Context, id types.TaskID) error {
	if id == "" {
		return ErrInvalidTaskID
	}
	// Fetch first: the event needs the project
	task, err := s.client.GetTask(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}
	if err := s.client.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	events.ProjectChanged(ctx, s.eventClient, task.ProjectID)
	return nil
}

// MoveTaskToColumn assigns the task to a column of its own project
func (s *service) MoveTaskToColumn(ctx context.Context, id types.TaskID, columnID types.ColumnID) error {
	if id == "" {
		return ErrInvalidTaskID
	}
	if columnID.IsZero() {
		return ErrInvalidColumnID
	}

	task, err := s.client.GetTask(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}
	columns, err := s.client.ListStatuses(ctx, task.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to list columns: %w", err)
	}
	if !contains(columns, columnID) {
		return ErrColumnNotInProject
	}
	if board.Resolve(task, columns).ColumnID == columnID {
		return ErrTaskAlreadyInTargetColumn
	}

	if err := s.client.UpdateTaskStatus(ctx, id, columnID); err != nil {
		return fmt.Errorf("failed to move task: %w", err)
	}

	events.ProjectChanged(ctx, s.eventClient, task.ProjectID)
	return nil
}

func (s *service) ListComments(ctx context.Context, id types.TaskID) ([]*models.Comment, error) {
	if id == "" {
		return nil, ErrInvalidTaskID
	}
	return s.client.ListComments(ctx, id)
}

// AddComment posts a comment. Comments are not on the board, so no refresh
// event is published.
func (s *service) AddComment(ctx context.Context, id types.TaskID, body string) (*models.Comment, error) {
	if id == "" {
		return nil, ErrInvalidTaskID
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyCommentMessage
	}
	if utf8.RuneCountInString(body) > 1000 {
		return nil, ErrCommentMessageTooLong
	}

	comment, err := s.client.AddComment(ctx, id, body)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return comment, nil
}

func (s *service) DeleteComment(ctx context.Context, id types.CommentID) error {
	if id == "" {
		return ErrInvalidCommentID
	}
	if err := s.client.DeleteComment(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *service) checkColumn(ctx context.Context, projectID types.ProjectID, columnID types.ColumnID) error {
	columns, err := s.client.ListStatuses(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to list columns: %w", err)
	}
	if !contains(columns, columnID) {
		return ErrColumnNotInProject
	}
	return nil
}

func validateCreate(req CreateTaskRequest) error {
	if req.ProjectID == "" {
		return ErrInvalidProjectID
	}
	if err := validateTitle(req.Title); err != nil {
		return err
	}
	if utf8.RuneCountInString(req.Description) > 10000 {
		return ErrDescriptionTooLong
	}
	if negative(req.EstimatedHours) {
		return ErrInvalidHours
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > 255 {
		return ErrTitleTooLong
	}
	return nil
}

func negative(hours *float64) bool {
	return hours != nil && *hours < 0
}

func contains(columns []*models.Column, id types.ColumnID) bool {
	for _, col := range columns {
		if col.ID == id {
			return true
		}
	}
	return false
}
