package column

import "errors"

// Column-related errors
var (
	// Validation errors
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrNameTooLong      = errors.New("name cannot exceed 50 characters")
	ErrInvalidSlug      = errors.New("slug may only contain lowercase letters, digits and underscores")
	ErrInvalidColor     = errors.New("color must be a hex code like #7D56F4")
	ErrInvalidColumnID  = errors.New("invalid column ID")
	ErrInvalidProjectID = errors.New("invalid project ID")
	ErrNothingToUpdate  = errors.New("no fields to update")

	// Business logic errors
	ErrColumnNotFound    = errors.New("column not found")
	ErrSlugTaken         = errors.New("a column with this slug already exists in the project")
	ErrLastColumn        = errors.New("cannot delete the only column of a project")
	ErrInvalidFallback   = errors.New("fallback column must be another column of the same project")
	ErrOrderMismatch     = errors.New("order must list every column of the project exactly once")
	ErrInvalidPosition   = errors.New("position is out of range")
	ErrAlreadyAtPosition = errors.New("column is already at that position")
)
