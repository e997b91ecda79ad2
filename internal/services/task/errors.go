package task

import "errors"

// Task-related errors
var (
	// Validation errors
	ErrEmptyTitle         = errors.New("task title cannot be empty")
	ErrTitleTooLong       = errors.New("task title cannot exceed 255 characters")
	ErrInvalidTaskID      = errors.New("invalid task ID")
	ErrInvalidColumnID    = errors.New("invalid column ID")
	ErrInvalidProjectID   = errors.New("invalid project ID")
	ErrInvalidPriority    = errors.New("invalid priority (must be: low, medium, high, urgent)")
	ErrInvalidHours       = errors.New("hours must be zero or positive")
	ErrNothingToUpdate    = errors.New("no fields to update")
	ErrDescriptionTooLong = errors.New("task description cannot exceed 10000 characters")

	// Business logic errors
	ErrColumnNotInProject        = errors.New("column does not belong to the task's project")
	ErrTaskAlreadyInTargetColumn = errors.New("task is already in target column")

	// Comment validation errors
	ErrEmptyCommentMessage   = errors.New("comment message cannot be empty")
	ErrCommentMessageTooLong = errors.New("comment message cannot exceed 1000 characters")
	ErrInvalidCommentID      = errors.New("invalid comment ID")
)
