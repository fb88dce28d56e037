package rbac

import (
	"errors"
	"time"
)

// Permission is an atomic grantable capability. Alias is the only field the
// runtime gate checks; name/description/rank are descriptive.
type Permission struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Alias       string `json:"alias"`
	Rank        int    `json:"rank"`
}

// Role bundles permission aliases under an enable/disable flag. A disabled
// role grants no access regardless of its permission set.
type Role struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Status      bool         `json:"status"`
	Rank        int          `json:"rank"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// HasAlias reports whether the role grants the exact alias. No prefix,
// wildcard or rank inference.
func (r Role) HasAlias(alias string) bool {
	for _, p := range r.Permissions {
		if p.Alias == alias {
			return true
		}
	}
	return false
}

// Denial errors returned by Authorize, one per gate step. The strings are
// user-visible API messages.
var (
	ErrAdminMissing = errors.New("Admin user does not exist")
	ErrRoleMissing  = errors.New("Role attached to this account does not exist")
	ErrRoleDisabled = errors.New("Role attached to this account is disabled")
	ErrNotGranted   = errors.New("You do not have permission to access this resource")
)

// ErrNotFound indicates a requested rbac record does not exist.
var ErrNotFound = errors.New("rbac: not found")

// IsDenial reports whether err is one of the four authorization denials.
func IsDenial(err error) bool {
	return errors.Is(err, ErrAdminMissing) ||
		errors.Is(err, ErrRoleMissing) ||
		errors.Is(err, ErrRoleDisabled) ||
		errors.Is(err, ErrNotGranted)
}
