package types

// ID types give the backend's opaque string identifiers semantic meaning.
// The backend issues every identifier; the client never mints one.

// TeamID identifies a team
type TeamID string

// ProjectID identifies a project within a team
type ProjectID string

// ColumnID identifies a board column (a "status" on the backend)
type ColumnID string

// TaskID identifies a task card
type TaskID string

// CommentID identifies a comment on a task
type CommentID string

// WorklogID identifies a single worklog entry
type WorklogID string

// APIKeyID identifies an API key issued to the current user
type APIKeyID string

// UserID identifies a user known to the identity provider
type UserID string

func (id TeamID) String() string    { return string(id) }
func (id ProjectID) String() string { return string(id) }
func (id ColumnID) String() string  { return string(id) }
func (id TaskID) String() string    { return string(id) }
func (id CommentID) String() string { return string(id) }
func (id WorklogID) String() string { return string(id) }
func (id APIKeyID) String() string  { return string(id) }
func (id UserID) String() string    { return string(id) }

// IsZero reports whether no column was assigned
func (id ColumnID) IsZero() bool { return id == "" }

// IsZero reports whether the project is unset
func (id ProjectID) IsZero() bool { return id == "" }

// ColumnIDs converts a slice of strings to column IDs
func ColumnIDs(ids ...string) []ColumnID {
	out := make([]ColumnID, len(ids))
	for i, id := range ids {
		out[i] = ColumnID(id)
	}
	return out
}
