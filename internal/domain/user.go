package domain

import (
	"time"
)

// Role represents user role
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a user entity
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session is a server-side record of an issued token. A token is only
// accepted while its session row exists, so logout revokes it.
type Session struct {
	ID        string     `json:"id"`
	UserID    int64      `json:"user_id"`
	Token     string     `json:"token"`
	UserAgent string     `json:"user_agent"`
	IP        string     `json:"ip"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"` // nil: valid until logout
	CreatedAt time.Time  `json:"created_at"`
}

// Claims represents the identity carried by a token
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}
