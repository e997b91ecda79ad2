package column

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/thenoetrevino/tablero/internal/api"
	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9_]+$`)
	colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	slugReplacer = regexp.MustCompile(`[^a-z0-9]+`)
)

// Service defines all column-related business operations
type Service interface {
	// Read operations
	ListColumns(ctx context.Context, projectID types.ProjectID) ([]*models.Column, error)
	GetColumn(ctx context.Context, projectID types.ProjectID, id types.ColumnID) (*models.Column, error)

	// Write operations
	CreateColumn(ctx context.Context, req CreateColumnRequest) (*models.Column, error)
	UpdateColumn(ctx context.Context, req UpdateColumnRequest) (*models.Column, error)
	DeleteColumn(ctx context.Context, req DeleteColumnRequest) error

	// Ordering
	ReorderColumns(ctx context.Context, projectID types.ProjectID, ids []types.ColumnID) error
	MoveColumn(ctx context.Context, projectID types.ProjectID, id types.ColumnID, position int) ([]*models.Column, error)
}

// CreateColumnRequest encapsulates data for creating a column.
// An empty Slug is derived from Name.
type CreateColumnRequest struct {
	ProjectID   types.ProjectID
	Name        string
	Slug        string
	Color       string
	IsCompleted bool
}

// UpdateColumnRequest changes a column; nil fields are left alone
type UpdateColumnRequest struct {
	ID          types.ColumnID
	Name        *string
	Color       *string
	IsCompleted *bool
}

// DeleteColumnRequest deletes a column. Its cards move to FallbackID, or
// to the first remaining column when empty.
type DeleteColumnRequest struct {
	ProjectID  types.ProjectID
	ID         types.ColumnID
	FallbackID types.ColumnID
}

type backend interface {
	ListStatuses(ctx context.Context, projectID types.ProjectID) ([]*models.Column, error)
	CreateStatus(ctx context.Context, projectID types.ProjectID, in api.StatusInput) (*models.Column, error)
	UpdateStatus(ctx context.Context, id types.ColumnID, in api.StatusPatch) (*models.Column, error)
	DeleteStatus(ctx context.Context, id, fallbackID types.ColumnID) error
	ReorderStatuses(ctx context.Context, projectID types.ProjectID, ids []types.ColumnID) error
}

type service struct {
	client      backend
	eventClient events.EventPublisher
}

// NewService creates a new column service. eventClient may be nil.
func NewService(client backend, eventClient events.EventPublisher) Service {
	return &service{client: client, eventClient: eventClient}
}

// ListColumns returns the project's columns in board order
func (s *service) ListColumns(ctx context.Context, projectID types.ProjectID) ([]*models.Column, error) {
	if projectID == "" {
		return nil, ErrInvalidProjectID
	}
	return s.client.ListStatuses(ctx, projectID)
}

// GetColumn finds a column by id within its project
func (s *service) GetColumn(ctx context.Context, projectID types.ProjectID, id types.ColumnID) (*models.Column, error) {
	if id.IsZero() {
		return nil, ErrInvalidColumnID
	}
	columns, err := s.ListColumns(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if col := find(columns, id); col != nil {
		return col, nil
	}
	return nil, ErrColumnNotFound
}

// CreateColumn appends a column to the end of the board
func (s *service) CreateColumn(ctx context.Context, req CreateColumnRequest) (*models.Column, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Slug == "" {
		req.Slug = Slugify(req.Name)
	}
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	existing, err := s.client.ListStatuses(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	for _, col := range existing {
		if col.Slug == req.Slug {
			return nil, ErrSlugTaken
		}
	}

	column, err := s.client.CreateStatus(ctx, req.ProjectID, api.StatusInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Color:       req.Color,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}

	events.ProjectChanged(ctx, s.eventClient, req.ProjectID)
	return column, nil
}

// UpdateColumn renames or recolors a column. The slug is kept so legacy
// tasks keep resolving to it.
func (s *service) UpdateColumn(ctx context.Context, req UpdateColumnRequest) (*models.Column, error) {
	if req.ID.IsZero() {
		return nil, ErrInvalidColumnID
	}
	if req.Name == nil && req.Color == nil && req.IsCompleted == nil {
		return nil, ErrNothingToUpdate
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		req.Name = &name
	}
	if req.Color != nil && *req.Color != "" && !colorPattern.MatchString(*req.Color) {
		return nil, ErrInvalidColor
	}

	column, err := s.client.UpdateStatus(ctx, req.ID, api.StatusPatch{
		Name:        req.Name,
		Color:       req.Color,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update column: %w", err)
	}

	events.ProjectChanged(ctx, s.eventClient, column.ProjectID)
	return column, nil
}

// DeleteColumn removes a column and reassigns its cards
func (s *service) DeleteColumn(ctx context.Context, req DeleteColumnRequest) error {
	if req.ID.IsZero() {
		return ErrInvalidColumnID
	}
	columns, err := s.ListColumns(ctx, req.ProjectID)
	if err != nil {
		return err
	}
	if find(columns, req.ID) == nil {
		return ErrColumnNotFound
	}
	if len(columns) == 1 {
		return ErrLastColumn
	}
	if !req.FallbackID.IsZero() && (req.FallbackID == req.ID || find(columns, req.FallbackID) == nil) {
		return ErrInvalidFallback
	}

	if err := s.client.DeleteStatus(ctx, req.ID, req.FallbackID); err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}

	events.ProjectChanged(ctx, s.eventClient, req.ProjectID)
	return nil
}

// ReorderColumns stores a complete new column order
func (s *service) ReorderColumns(ctx context.Context, projectID types.ProjectID, ids []types.ColumnID) error {
	columns, err := s.ListColumns(ctx, projectID)
	if err != nil {
		return err
	}
	if !samePermutation(columns, ids) {
		return ErrOrderMismatch
	}

	if err := s.client.ReorderStatuses(ctx, projectID, ids); err != nil {
		return fmt.Errorf("failed to reorder columns: %w", err)
	}

	events.ProjectChanged(ctx, s.eventClient, projectID)
	return nil
}

// MoveColumn moves one column to a zero-based position and returns the
// resulting order
func (s *service) MoveColumn(ctx context.Context, projectID types.ProjectID, id types.ColumnID, position int) ([]*models.Column, error) {
	columns, err := s.ListColumns(ctx, projectID)
	if err != nil {
		return nil, err
	}

	from := -1
	for i, col := range columns {
		if col.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return nil, ErrColumnNotFound
	}
	if position == from {
		return nil, ErrAlreadyAtPosition
	}

	moved, err := board.Move(columns, from, position)
	if err != nil {
		return nil, ErrInvalidPosition
	}

	ids := make([]types.ColumnID, len(moved))
	for i, col := range moved {
		ids[i] = col.ID
	}
	if err := s.client.ReorderStatuses(ctx, projectID, ids); err != nil {
		return nil, fmt.Errorf("failed to move column: %w", err)
	}

	events.ProjectChanged(ctx, s.eventClient, projectID)

	out := make([]*models.Column, len(moved))
	for i, col := range moved {
		cp := *col
		cp.Position = i
		out[i] = &cp
	}
	return out, nil
}

// Slugify turns a column name into a slug ("In Review" -> "in_review")
func Slugify(name string) string {
	slug := slugReplacer.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	return strings.Trim(slug, "_")
}

func validateCreate(req CreateColumnRequest) error {
	if req.ProjectID == "" {
		return ErrInvalidProjectID
	}
	if err := validateName(req.Name); err != nil {
		return err
	}
	if !slugPattern.MatchString(req.Slug) {
		return ErrInvalidSlug
	}
	if req.Color != "" && !colorPattern.MatchString(req.Color) {
		return ErrInvalidColor
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > 50 {
		return ErrNameTooLong
	}
	return nil
}

func find(columns []*models.Column, id types.ColumnID) *models.Column {
	for _, col := range columns {
		if col.ID == id {
			return col
		}
	}
	return nil
}

func samePermutation(columns []*models.Column, ids []types.ColumnID) bool {
	if len(columns) != len(ids) {
		return false
	}
	want := make(map[types.ColumnID]bool, len(columns))
	for _, col := range columns {
		want[col.ID] = true
	}
	for _, id := range ids {
		if !want[id] {
			return false
		}
		delete(want, id)
	}
	return true
}
