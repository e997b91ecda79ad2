package team

import "errors"

// Team-related errors
var (
	// Validation errors
	ErrEmptyName     = errors.New("team name cannot be empty")
	ErrNameTooLong   = errors.New("team name cannot exceed 100 characters")
	ErrInvalidTeamID = errors.New("invalid team ID")
	ErrInvalidUserID = errors.New("invalid user ID")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidRole   = errors.New("invalid role (must be: owner, admin, member)")

	// Business logic errors
	ErrOwnerRole = errors.New("ownership cannot be granted when adding a member")
)
