package models

import "github.com/thenoetrevino/tablero/internal/types"

// User is the signed-in account as the backend sees it
type User struct {
	ID          types.UserID `json:"id"`
	Email       string       `json:"email"`
	DisplayName string       `json:"displayName,omitempty"`
}
