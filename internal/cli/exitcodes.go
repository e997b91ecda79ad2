package cli

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: network errors, backend 5xx, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: missing required flags, unknown commands, or a command that
	// needs a current project when none is selected.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: any 404 from the backend.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: unreadable settings files or responses that cannot be decoded.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: input rejected by a service before it reached the backend,
	// and 400/409/422 responses.
	ExitValidation = 5

	// ExitAuth indicates the user is not signed in or not allowed.
	// Use for: missing or expired sessions, 401 and 403 responses.
	ExitAuth = 6
)
