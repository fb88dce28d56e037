package admins

import (
	"time"

	"github.com/meridian-invest/meridian/internal/shared"
)

// Admin is a back-office operator account.
type Admin struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	RoleID       *int64    `json:"role_id,omitempty"`
	RoleName     *string   `json:"role_name,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Filters narrows admin listings.
type Filters struct {
	shared.ListQuery
	RoleID *int64
}
