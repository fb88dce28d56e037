package rbac

import (
	"context"
	"errors"
	"testing"
)

type stubStore struct {
	Store
	admins map[int64]*int64
	roles  map[int64]Role
}

func (s *stubStore) AdminRoleID(ctx context.Context, adminID int64) (*int64, error) {
	roleID, ok := s.admins[adminID]
	if !ok {
		return nil, ErrAdminMissing
	}
	return roleID, nil
}

func (s *stubStore) RoleWithPermissions(ctx context.Context, roleID int64) (Role, error) {
	role, ok := s.roles[roleID]
	if !ok {
		return Role{}, ErrNotFound
	}
	return role, nil
}

func roleRef(id int64) *int64 { return &id }

func newAuthzFixture() *stubStore {
	return &stubStore{
		admins: map[int64]*int64{
			1: roleRef(10),
			2: nil,
			3: roleRef(99),
			4: roleRef(11),
		},
		roles: map[int64]Role{
			10: {ID: 10, Name: "ops", Status: true, Permissions: []Permission{{Alias: "view-users"}, {Alias: "manage-faqs"}}},
			11: {ID: 11, Name: "dormant", Status: false, Permissions: []Permission{{Alias: "view-users"}}},
		},
	}
}

func TestAuthorizeGrantsExactAlias(t *testing.T) {
	svc := NewService(newAuthzFixture())
	if err := svc.Authorize(context.Background(), 1, "view-users"); err != nil {
		t.Fatalf("expected grant, got %v", err)
	}
}

func TestAuthorizeUnknownAdmin(t *testing.T) {
	svc := NewService(newAuthzFixture())
	if err := svc.Authorize(context.Background(), 42, "view-users"); !errors.Is(err, ErrAdminMissing) {
		t.Fatalf("expected ErrAdminMissing, got %v", err)
	}
}

func TestAuthorizeNoRoleAttached(t *testing.T) {
	svc := NewService(newAuthzFixture())
	if err := svc.Authorize(context.Background(), 2, "view-users"); !errors.Is(err, ErrRoleMissing) {
		t.Fatalf("expected ErrRoleMissing, got %v", err)
	}
}

func TestAuthorizeDanglingRoleReference(t *testing.T) {
	svc := NewService(newAuthzFixture())
	if err := svc.Authorize(context.Background(), 3, "view-users"); !errors.Is(err, ErrRoleMissing) {
		t.Fatalf("expected ErrRoleMissing, got %v", err)
	}
}

func TestAuthorizeDisabledRoleDeniesGrantedAlias(t *testing.T) {
	// The disabled role carries the requested alias; the status check must
	// fire before the alias check.
	svc := NewService(newAuthzFixture())
	if err := svc.Authorize(context.Background(), 4, "view-users"); !errors.Is(err, ErrRoleDisabled) {
		t.Fatalf("expected ErrRoleDisabled, got %v", err)
	}
}

func TestAuthorizeAliasNotGranted(t *testing.T) {
	svc := NewService(newAuthzFixture())
	if err := svc.Authorize(context.Background(), 1, "delete-users"); !errors.Is(err, ErrNotGranted) {
		t.Fatalf("expected ErrNotGranted, got %v", err)
	}
}

func TestAuthorizeRejectsPrefixMatch(t *testing.T) {
	store := newAuthzFixture()
	store.roles[10] = Role{ID: 10, Status: true, Permissions: []Permission{{Alias: "view-users"}}}
	svc := NewService(store)
	// "view-user" is a prefix of a granted alias and must not pass.
	if err := svc.Authorize(context.Background(), 1, "view-user"); !errors.Is(err, ErrNotGranted) {
		t.Fatalf("expected ErrNotGranted for prefix, got %v", err)
	}
	if err := svc.Authorize(context.Background(), 1, "view-users-all"); !errors.Is(err, ErrNotGranted) {
		t.Fatalf("expected ErrNotGranted for superstring, got %v", err)
	}
}
