package models

import (
	"time"

	"github.com/thenoetrevino/tablero/internal/types"
)

// Team groups users and owns projects
type Team struct {
	ID        types.TeamID `json:"id"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// GetID returns the team ID for quiet CLI output
func (t *Team) GetID() string {
	return string(t.ID)
}

// TeamMember is a user's membership in a team
type TeamMember struct {
	UserID      types.UserID `json:"userId"`
	Email       string       `json:"email"`
	DisplayName string       `json:"displayName,omitempty"`
	Role        Role         `json:"role"`
	JoinedAt    time.Time    `json:"joinedAt"`
}

// GetID returns the member's user ID for quiet CLI output
func (m *TeamMember) GetID() string {
	return string(m.UserID)
}
