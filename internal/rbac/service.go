package rbac

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Directory is the read side the authorization gate depends on.
type Directory interface {
	// AdminRoleID resolves the role reference for an admin. It returns
	// ErrAdminMissing when the admin record does not exist and a nil role ID
	// when the admin has no role attached.
	AdminRoleID(ctx context.Context, adminID int64) (*int64, error)
	// RoleWithPermissions loads a role with its permission set expanded.
	// Returns ErrNotFound for a dangling reference.
	RoleWithPermissions(ctx context.Context, roleID int64) (Role, error)
}

// Store is the management side: role/permission catalog maintenance.
type Store interface {
	Directory
	ListRoles(ctx context.Context) ([]Role, error)
	CreateRole(ctx context.Context, role Role, aliases []string) (Role, error)
	UpdateRole(ctx context.Context, id int64, name, description string, rank int) (Role, error)
	SetRoleStatus(ctx context.Context, id int64, status bool) error
	DeleteRole(ctx context.Context, id int64) error
	AttachPermission(ctx context.Context, roleID int64, alias string) error
	DetachPermission(ctx context.Context, roleID int64, alias string) error
	ListPermissions(ctx context.Context) ([]Permission, error)
}

// Service performs the access-control decision and role/permission
// management. The gate holds no state and caches nothing: every call
// re-reads the role and its permission set.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Authorize decides whether the admin may execute an action gated on the
// given permission alias. The four checks run strictly in order and the
// first failure short-circuits with its step-specific denial error.
func (s *Service) Authorize(ctx context.Context, adminID int64, alias string) error {
	roleID, err := s.store.AdminRoleID(ctx, adminID)
	if err != nil {
		return err
	}
	if roleID == nil {
		return ErrRoleMissing
	}
	role, err := s.store.RoleWithPermissions(ctx, *roleID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrRoleMissing
		}
		return err
	}
	if !role.Status {
		return ErrRoleDisabled
	}
	if !role.HasAlias(alias) {
		return ErrNotGranted
	}
	return nil
}

// ListRoles returns all roles with their permission sets.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.store.ListRoles(ctx)
}

// GetRole fetches one role.
func (s *Service) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.store.RoleWithPermissions(ctx, id)
}

// CreateRole inserts a role granting the given aliases. New roles start
// enabled.
func (s *Service) CreateRole(ctx context.Context, name, description string, rank int, aliases []string) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, errors.New("rbac: role name required")
	}
	return s.store.CreateRole(ctx, Role{
		Name:        name,
		Description: strings.TrimSpace(description),
		Status:      true,
		Rank:        rank,
	}, aliases)
}

// UpdateRole updates the descriptive fields of a role.
func (s *Service) UpdateRole(ctx context.Context, id int64, name, description string, rank int) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, errors.New("rbac: role name required")
	}
	return s.store.UpdateRole(ctx, id, name, strings.TrimSpace(description), rank)
}

// SetRoleStatus enables or disables a role. Disabling is the preferred
// alternative to deletion.
func (s *Service) SetRoleStatus(ctx context.Context, id int64, status bool) error {
	return s.store.SetRoleStatus(ctx, id, status)
}

// DeleteRole removes a role.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	return s.store.DeleteRole(ctx, id)
}

// AttachPermission grants an alias to a role.
func (s *Service) AttachPermission(ctx context.Context, roleID int64, alias string) error {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return fmt.Errorf("rbac: permission alias required")
	}
	return s.store.AttachPermission(ctx, roleID, alias)
}

// DetachPermission revokes an alias from a role.
func (s *Service) DetachPermission(ctx context.Context, roleID int64, alias string) error {
	return s.store.DetachPermission(ctx, roleID, alias)
}

// ListPermissions returns the permission catalog.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.store.ListPermissions(ctx)
}
