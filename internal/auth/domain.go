package auth

import (
	"errors"
	"time"
)

// Admin is an administrative account able to obtain a bearer token.
type Admin struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	RoleID       *int64    `json:"role_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ErrInvalidCredentials indicates login failure. The same error covers
// unknown email, wrong password and disabled accounts so responses do not
// leak which one it was.
var ErrInvalidCredentials = errors.New("invalid email or password")
