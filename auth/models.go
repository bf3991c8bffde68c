package auth

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	// RoleVerified is a regular employee who may reserve and release spots
	// for themselves.
	RoleVerified Role = "verified"
	// RoleAdmin may additionally act on behalf of other users and manage
	// parking spots.
	RoleAdmin Role = "admin"
)

// User is the domain representation of an account. It mirrors the users table
// and carries no JSON annotations so it can be reused by different
// presentation layers.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user may act on behalf of others.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RegisterRequest contains account registration data supplied by callers.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
