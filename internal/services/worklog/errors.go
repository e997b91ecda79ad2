package worklog

import "errors"

// Worklog-related errors
var (
	ErrInvalidTaskID    = errors.New("invalid task ID")
	ErrInvalidProjectID = errors.New("invalid project ID")
	ErrInvalidWorklogID = errors.New("invalid worklog ID")
	ErrInvalidHours     = errors.New("hours must be greater than 0 and at most 24")
	ErrNoteTooLong      = errors.New("note cannot exceed 500 characters")
	ErrFutureDate       = errors.New("cannot log time in the future")
	ErrInvalidRange     = errors.New("report start date is after its end date")
)
