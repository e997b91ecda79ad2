package session

import "errors"

var (
	// ErrNotAuthenticated means no bearer credential is stored
	ErrNotAuthenticated = errors.New("not signed in")

	// ErrTokenExpired means the stored access token is past its expiry
	ErrTokenExpired = errors.New("session expired")

	// ErrNoProject means no current project has been selected
	ErrNoProject = errors.New("no current project selected")
)
