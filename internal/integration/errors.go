package integration

import "errors"

var (
	ErrUnknownTarget = errors.New("unknown integration target (must be: claude, opencode)")
	ErrUnknownScope  = errors.New("unknown scope (must be: user, project)")
	ErrEmptyKey      = errors.New("api key cannot be empty")
	ErrMalformed     = errors.New("settings file is not a JSON object")
)
