package shared

import (
	"time"

	"github.com/google/uuid"
)

// Identity is an opaque reference to an authenticated user, issued by the
// auth service. A nil *Identity means "signed out".
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// User represents a stored account in the system
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity derives the opaque identity reference for this account
func (u *User) Identity() *Identity {
	return &Identity{UserID: u.ID, Email: u.Email}
}
