package board

import "errors"

// Validation errors. These are returned before any state changes and are
// never reported through the Notifier.
var (
	ErrInvalidIndex   = errors.New("column index out of range")
	ErrCardNotFound   = errors.New("card not found on board")
	ErrColumnNotFound = errors.New("column not found on board")
	ErrCrossProject   = errors.New("column belongs to a different project")
)

// Drag gesture errors
var (
	ErrDragActive = errors.New("a drag is already in progress")
	ErrNoDrag     = errors.New("no drag in progress")
)
