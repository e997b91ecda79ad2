package team

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/thenoetrevino/tablero/internal/api"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Service defines all team-related operations
type Service interface {
	// Read operations
	ListTeams(ctx context.Context) ([]*models.Team, error)
	GetTeam(ctx context.Context, id types.TeamID) (*models.Team, error)
	ListMembers(ctx context.Context, id types.TeamID) ([]*models.TeamMember, error)

	// Write operations
	CreateTeam(ctx context.Context, name string) (*models.Team, error)
	RenameTeam(ctx context.Context, id types.TeamID, name string) (*models.Team, error)
	DeleteTeam(ctx context.Context, id types.TeamID) error
	AddMember(ctx context.Context, req AddMemberRequest) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, id types.TeamID, userID types.UserID) error
}

// AddMemberRequest invites a user by email. Role defaults to member.
type AddMemberRequest struct {
	TeamID types.TeamID
	Email  string
	Role   string
}

// backend is the slice of the API client the team service needs
type backend interface {
	ListTeams(ctx context.Context) ([]*models.Team, error)
	GetTeam(ctx context.Context, id types.TeamID) (*models.Team, error)
	CreateTeam(ctx context.Context, in api.TeamInput) (*models.Team, error)
	UpdateTeam(ctx context.Context, id types.TeamID, in api.TeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, id types.TeamID) error
	ListMembers(ctx context.Context, id types.TeamID) ([]*models.TeamMember, error)
	AddMember(ctx context.Context, id types.TeamID, in api.MemberInput) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, id types.TeamID, userID types.UserID) error
}

type service struct {
	client backend
}

// NewService creates a new team service
func NewService(client backend) Service {
	return &service{client: client}
}

func (s *service) ListTeams(ctx context.Context) ([]*models.Team, error) {
	return s.client.ListTeams(ctx)
}

func (s *service) GetTeam(ctx context.Context, id types.TeamID) (*models.Team, error) {
	if id == "" {
		return nil, ErrInvalidTeamID
	}
	return s.client.GetTeam(ctx, id)
}

func (s *service) ListMembers(ctx context.Context, id types.TeamID) ([]*models.TeamMember, error) {
	if id == "" {
		return nil, ErrInvalidTeamID
	}
	return s.client.ListMembers(ctx, id)
}

// CreateTeam creates a team owned by the signed-in user
func (s *service) CreateTeam(ctx context.Context, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	team, err := s.client.CreateTeam(ctx, api.TeamInput{Name: name})
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *service) RenameTeam(ctx context.Context, id types.TeamID, name string) (*models.Team, error) {
	if id == "" {
		return nil, ErrInvalidTeamID
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	team, err := s.client.UpdateTeam(ctx, id, api.TeamInput{Name: name})
	if err != nil {
		return nil, fmt.Errorf("failed to rename team: %w", err)
	}
	return team, nil
}

func (s *service) DeleteTeam(ctx context.Context, id types.TeamID) error {
	if id == "" {
		return ErrInvalidTeamID
	}
	if err := s.client.DeleteTeam(ctx, id); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

// AddMember invites a user. Owners are only made by the backend's
// ownership transfer, never by invitation.
func (s *service) AddMember(ctx context.Context, req AddMemberRequest) (*models.TeamMember, error) {
	if req.TeamID == "" {
		return nil, ErrInvalidTeamID
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, ErrInvalidEmail
	}

	role := models.RoleMember
	if req.Role != "" {
		role, err = models.ParseRole(req.Role)
		if err != nil {
			return nil, ErrInvalidRole
		}
	}
	if role == models.RoleOwner {
		return nil, ErrOwnerRole
	}

	member, err := s.client.AddMember(ctx, req.TeamID, api.MemberInput{Email: addr.Address, Role: role})
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return member, nil
}

func (s *service) RemoveMember(ctx context.Context, id types.TeamID, userID types.UserID) error {
	if id == "" {
		return ErrInvalidTeamID
	}
	if userID == "" {
		return ErrInvalidUserID
	}
	if err := s.client.RemoveMember(ctx, id, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
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
