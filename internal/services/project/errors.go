package project

import "errors"

// Project-related errors
var (
	// Validation errors
	ErrEmptyName          = errors.New("project name cannot be empty")
	ErrNameTooLong        = errors.New("project name cannot exceed 100 characters")
	ErrInvalidKey         = errors.New("project key must be 2-10 uppercase letters")
	ErrInvalidProjectID   = errors.New("invalid project ID")
	ErrInvalidTeamID      = errors.New("invalid team ID")
	ErrDescriptionTooLong = errors.New("project description cannot exceed 2000 characters")
	ErrNothingToUpdate    = errors.New("no fields to update")
)
