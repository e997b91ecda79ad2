package project

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/thenoetrevino/tablero/internal/api"
	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

var keyPattern = regexp.MustCompile(`^[A-Z]{2,10}$`)

// Service defines all project-related business operations
type Service interface {
	// Read operations
	ListProjects(ctx context.Context, teamID types.TeamID) ([]*models.Project, error)
	GetProject(ctx context.Context, id types.ProjectID) (*models.Project, error)

	// Write operations
	CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, req UpdateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, id types.ProjectID) error
}

// CreateProjectRequest encapsulates data for creating a project.
// An empty Key is derived from the name.
type CreateProjectRequest struct {
	TeamID      types.TeamID
	Name        string
	Key         string
	Description string
}

// UpdateProjectRequest encapsulates data for updating a project
// Fields with pointers are optional - nil means don't update
type UpdateProjectRequest struct {
	ID          types.ProjectID
	Name        *string
	Description *string
}

// backend defines the API calls needed by the project service
type backend interface {
	ListProjects(ctx context.Context, teamID types.TeamID) ([]*models.Project, error)
	GetProject(ctx context.Context, id types.ProjectID) (*models.Project, error)
	CreateProject(ctx context.Context, teamID types.TeamID, in api.ProjectInput) (*models.Project, error)
	UpdateProject(ctx context.Context, id types.ProjectID, in api.ProjectPatch) (*models.Project, error)
	DeleteProject(ctx context.Context, id types.ProjectID) error
}

type service struct {
	client      backend
	eventClient events.EventPublisher
}

// NewService creates a new project service. eventClient may be nil.
func NewService(client backend, eventClient events.EventPublisher) Service {
	return &service{client: client, eventClient: eventClient}
}

func (s *service) ListProjects(ctx context.Context, teamID types.TeamID) ([]*models.Project, error) {
	if teamID == "" {
		return nil, ErrInvalidTeamID
	}
	return s.client.ListProjects(ctx, teamID)
}

func (s *service) GetProject(ctx context.Context, id types.ProjectID) (*models.Project, error) {
	if id == "" {
		return nil, ErrInvalidProjectID
	}
	return s.client.GetProject(ctx, id)
}

// CreateProject validates and creates a project. The backend seeds the
// default columns.
func (s *service) CreateProject(ctx context.Context, req CreateProjectRequest) (*models.Project, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Key = strings.ToUpper(strings.TrimSpace(req.Key))
	if req.Key == "" {
		req.Key = DeriveKey(req.Name)
	}
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	project, err := s.client.CreateProject(ctx, req.TeamID, api.ProjectInput{
		Name:        req.Name,
		Key:         req.Key,
		Description: req.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	events.ProjectChanged(ctx, s.eventClient, project.ID)
	return project, nil
}

func (s *service) UpdateProject(ctx context.Context, req UpdateProjectRequest) (*models.Project, error) {
	if req.ID == "" {
		return nil, ErrInvalidProjectID
	}
	if req.Name == nil && req.Description == nil {
		return nil, ErrNothingToUpdate
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		req.Name = &name
	}
	if req.Description != nil && utf8.RuneCountInString(*req.Description) > 2000 {
		return nil, ErrDescriptionTooLong
	}

	project, err := s.client.UpdateProject(ctx, req.ID, api.ProjectPatch{Name: req.Name, Description: req.Description})
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	events.ProjectChanged(ctx, s.eventClient, req.ID)
	return project, nil
}

// DeleteProject deletes the project together with its columns and tasks
func (s *service) DeleteProject(ctx context.Context, id types.ProjectID) error {
	if id == "" {
		return ErrInvalidProjectID
	}
	if err := s.client.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	events.ProjectChanged(ctx, s.eventClient, id)
	return nil
}

// DeriveKey builds a key from the initials of a multi-word name, or the
// leading letters of a single word ("Web Platform" -> "WP", "Mobile" -> "MOB").
func DeriveKey(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) || r > unicode.MaxASCII
	})

	var b strings.Builder
	if len(words) > 1 {
		for _, w := range words {
			b.WriteRune(unicode.ToUpper(rune(w[0])))
			if b.Len() == 10 {
				break
			}
		}
	} else if len(words) == 1 {
		word := strings.ToUpper(words[0])
		if len(word) > 3 {
			word = word[:3]
		}
		b.WriteString(word)
	}
	return b.String()
}

func validateCreate(req CreateProjectRequest) error {
	if req.TeamID == "" {
		return ErrInvalidTeamID
	}
	if err := validateName(req.Name); err != nil {
		return err
	}
	if !keyPattern.MatchString(req.Key) {
		return ErrInvalidKey
	}
	if utf8.RuneCountInString(req.Description) > 2000 {
		return ErrDescriptionTooLong
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > 100 {
		return ErrNameTooLong
	}
	return nil
}
