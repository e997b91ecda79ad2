package apikey

import "errors"

var (
	ErrEmptyName    = errors.New("api key name cannot be empty")
	ErrNameTooLong  = errors.New("api key name cannot exceed 64 characters")
	ErrInvalidKeyID = errors.New("invalid api key ID")
	ErrNoSecret     = errors.New("backend did not return the key secret")
)
