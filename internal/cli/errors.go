package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/thenoetrevino/tablero/internal/api"
	"github.com/thenoetrevino/tablero/internal/board"
	"github.com/thenoetrevino/tablero/internal/identity"
	"github.com/thenoetrevino/tablero/internal/integration"
	"github.com/thenoetrevino/tablero/internal/services/apikey"
	"github.com/thenoetrevino/tablero/internal/services/column"
	"github.com/thenoetrevino/tablero/internal/services/project"
	"github.com/thenoetrevino/tablero/internal/services/task"
	"github.com/thenoetrevino/tablero/internal/services/team"
	"github.com/thenoetrevino/tablero/internal/services/worklog"
	"github.com/thenoetrevino/tablero/internal/session"
)

// CommandError is a failed command with its exit code and the code/message
// pair shown to the user
type CommandError struct {
	Exit       int
	Code       string
	Message    string
	Suggestion string
	Err        error
}

func (e *CommandError) Error() string {
	return e.Message
}

func (e *CommandError) Unwrap() error { return e.Err }

// Usagef builds an ExitUsage error
func Usagef(suggestion, format string, args ...any) *CommandError {
	return &CommandError{
		Exit:       ExitUsage,
		Code:       "USAGE_ERROR",
		Message:    fmt.Sprintf(format, args...),
		Suggestion: suggestion,
	}
}

// ExitCode maps an error returned by Execute to a process exit code. Errors
// that never reached a command (unknown flags, wrong arg counts) are usage
// errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Exit
	}
	return ExitUsage
}

// Errors rejected locally before any request was made
var validationErrors = []error{
	team.ErrEmptyName, team.ErrNameTooLong, team.ErrInvalidTeamID, team.ErrInvalidUserID,
	team.ErrInvalidEmail, team.ErrInvalidRole, team.ErrOwnerRole,

	project.ErrEmptyName, project.ErrNameTooLong, project.ErrInvalidKey, project.ErrInvalidProjectID,
	project.ErrInvalidTeamID, project.ErrDescriptionTooLong, project.ErrNothingToUpdate,

	column.ErrEmptyName, column.ErrNameTooLong, column.ErrInvalidSlug, column.ErrInvalidColor,
	column.ErrInvalidColumnID, column.ErrInvalidProjectID, column.ErrNothingToUpdate,
	column.ErrSlugTaken, column.ErrLastColumn, column.ErrInvalidFallback, column.ErrOrderMismatch,
	column.ErrInvalidPosition, column.ErrAlreadyAtPosition,

	task.ErrEmptyTitle, task.ErrTitleTooLong, task.ErrInvalidTaskID, task.ErrInvalidColumnID,
	task.ErrInvalidProjectID, task.ErrInvalidPriority, task.ErrInvalidHours, task.ErrNothingToUpdate,
	task.ErrDescriptionTooLong, task.ErrColumnNotInProject, task.ErrTaskAlreadyInTargetColumn,
	task.ErrEmptyCommentMessage, task.ErrCommentMessageTooLong, task.ErrInvalidCommentID,

	worklog.ErrInvalidTaskID, worklog.ErrInvalidProjectID, worklog.ErrInvalidWorklogID,
	worklog.ErrInvalidHours, worklog.ErrNoteTooLong, worklog.ErrFutureDate, worklog.ErrInvalidRange,

	apikey.ErrEmptyName, apikey.ErrNameTooLong, apikey.ErrInvalidKeyID,

	integration.ErrUnknownTarget, integration.ErrUnknownScope, integration.ErrEmptyKey,

	board.ErrInvalidIndex, board.ErrCrossProject,
}

// Classify turns any error into a CommandError
func Classify(err error) *CommandError {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr
	}

	e := &CommandError{Exit: ExitError, Code: "ERROR", Message: err.Error(), Err: err}

	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		e.Exit, e.Code = ExitAuth, "NOT_AUTHENTICATED"
		e.Suggestion = "Sign in with: tablero auth signin --email <email>"
	case errors.Is(err, session.ErrTokenExpired):
		e.Exit, e.Code = ExitAuth, "SESSION_EXPIRED"
		e.Suggestion = "Sign in again with: tablero auth signin --email <email>"
	case errors.Is(err, api.ErrUnauthorized):
		e.Exit, e.Code = ExitAuth, "UNAUTHORIZED"
		e.Suggestion = "Your session was rejected and has been cleared. Sign in again."
	case errors.Is(err, api.ErrForbidden):
		e.Exit, e.Code = ExitAuth, "FORBIDDEN"
	case errors.Is(err, identity.ErrInvalidCredentials):
		e.Exit, e.Code = ExitAuth, "INVALID_CREDENTIALS"
	case errors.Is(err, identity.ErrEmailTaken):
		e.Exit, e.Code = ExitValidation, "EMAIL_TAKEN"
		e.Suggestion = "Sign in instead: tablero auth signin"
	case errors.Is(err, session.ErrNoProject):
		e.Exit, e.Code = ExitUsage, "NO_PROJECT"
		e.Suggestion = "Pass --project <id> or select one with: tablero use project <id>"
	case errors.Is(err, api.ErrNotFound), errors.Is(err, board.ErrCardNotFound), errors.Is(err, board.ErrColumnNotFound),
		errors.Is(err, column.ErrColumnNotFound):
		e.Exit, e.Code = ExitNotFound, "NOT_FOUND"
	case errors.Is(err, api.ErrConflict):
		e.Exit, e.Code = ExitValidation, "CONFLICT"
	case errors.Is(err, api.ErrBadRequest):
		e.Exit, e.Code = ExitValidation, "REJECTED"
	case errors.Is(err, integration.ErrMalformed), errors.As(err, &syntaxErr):
		e.Exit, e.Code = ExitDataErr, "INVALID_DATA"
	case isValidation(err):
		e.Exit, e.Code = ExitValidation, "VALIDATION_ERROR"
	case api.IsRetryable(err):
		e.Code = "UNAVAILABLE"
		e.Suggestion = "The server could not be reached or failed to answer. Try again in a moment."
	}
	return e
}

func isValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
