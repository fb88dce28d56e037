package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

// PGStore provides PostgreSQL backed persistence for roles and permissions.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewStore constructs a store.
func NewStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// AdminRoleID resolves the role reference of an admin account.
func (s *PGStore) AdminRoleID(ctx context.Context, adminID int64) (*int64, error) {
	var roleID *int64
	err := s.pool.QueryRow(ctx, `SELECT role_id FROM admins WHERE id = $1`, adminID).Scan(&roleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminMissing
		}
		return nil, err
	}
	return roleID, nil
}

// RoleWithPermissions loads one role and expands its permission set.
func (s *PGStore) RoleWithPermissions(ctx context.Context, roleID int64) (Role, error) {
	var role Role
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, description, status, rank, created_at, updated_at FROM roles WHERE id = $1`,
		roleID).Scan(&role.ID, &role.Name, &role.Description, &role.Status, &role.Rank, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, ErrNotFound
		}
		return Role{}, err
	}
	perms, err := s.rolePermissions(ctx, roleID)
	if err != nil {
		return Role{}, err
	}
	role.Permissions = perms
	return role, nil
}

func (s *PGStore) rolePermissions(ctx context.Context, roleID int64) ([]Permission, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.name, p.description, p.alias, p.rank
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.rank, p.alias`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Alias, &p.Rank); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// ListRoles returns all roles with permissions expanded, ordered by rank.
func (s *PGStore) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description, status, rank, created_at, updated_at FROM roles ORDER BY rank, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.Status, &role.Rank, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range roles {
		perms, err := s.rolePermissions(ctx, roles[i].ID)
		if err != nil {
			return nil, err
		}
		roles[i].Permissions = perms
	}
	return roles, nil
}

// CreateRole inserts a role and attaches the given aliases.
func (s *PGStore) CreateRole(ctx context.Context, role Role, aliases []string) (Role, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO roles (name, description, status, rank, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		role.Name, role.Description, role.Status, role.Rank).Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Role{}, fmt.Errorf("%w: role name already exists", httpx.ErrDuplicate)
		}
		return Role{}, err
	}
	for _, alias := range aliases {
		if err := s.AttachPermission(ctx, role.ID, alias); err != nil {
			return Role{}, err
		}
	}
	return s.RoleWithPermissions(ctx, role.ID)
}

// UpdateRole updates descriptive fields of a role.
func (s *PGStore) UpdateRole(ctx context.Context, id int64, name, description string, rank int) (Role, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE roles SET name = $2, description = $3, rank = $4, updated_at = NOW() WHERE id = $1`,
		id, name, description, rank)
	if err != nil {
		if isUniqueViolation(err) {
			return Role{}, fmt.Errorf("%w: role name already exists", httpx.ErrDuplicate)
		}
		return Role{}, err
	}
	if tag.RowsAffected() == 0 {
		return Role{}, ErrNotFound
	}
	return s.RoleWithPermissions(ctx, id)
}

// SetRoleStatus flips the enabled flag.
func (s *PGStore) SetRoleStatus(ctx context.Context, id int64, status bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE roles SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRole removes a role and its permission assignments.
func (s *PGStore) DeleteRole(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AttachPermission grants an alias to a role. Attaching an already granted
// alias is a no-op.
func (s *PGStore) AttachPermission(ctx context.Context, roleID int64, alias string) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO role_permissions (role_id, permission_id)
		SELECT $1, id FROM permissions WHERE alias = $2
		ON CONFLICT DO NOTHING`, roleID, alias)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if granted, checkErr := s.aliasGranted(ctx, roleID, alias); checkErr == nil && granted {
			return nil
		}
		return fmt.Errorf("%w: permission alias %q", ErrNotFound, alias)
	}
	return nil
}

func (s *PGStore) aliasGranted(ctx context.Context, roleID int64, alias string) (bool, error) {
	var granted bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM role_permissions rp
			JOIN permissions p ON p.id = rp.permission_id
			WHERE rp.role_id = $1 AND p.alias = $2
		)`, roleID, alias).Scan(&granted)
	return granted, err
}

// DetachPermission revokes an alias from a role.
func (s *PGStore) DetachPermission(ctx context.Context, roleID int64, alias string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM role_permissions rp
		USING permissions p
		WHERE rp.permission_id = p.id AND rp.role_id = $1 AND p.alias = $2`, roleID, alias)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: permission alias %q", ErrNotFound, alias)
	}
	return nil
}

// ListPermissions returns the permission catalog ordered by rank.
func (s *PGStore) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, description, alias, rank FROM permissions ORDER BY rank, alias`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Alias, &p.Rank); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// UpsertPermission inserts or refreshes a catalog entry keyed by alias.
// Used only by the seed bootstrap.
func (s *PGStore) UpsertPermission(ctx context.Context, p Permission) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO permissions (name, description, alias, rank)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (alias) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, rank = EXCLUDED.rank`,
		p.Name, p.Description, p.Alias, p.Rank)
	return err
}

// EnsureRole creates the role if absent and attaches any missing aliases.
func (s *PGStore) EnsureRole(ctx context.Context, role Role, aliases []string) error {
	var id int64
	err := s.pool.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, role.Name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		err = s.pool.QueryRow(ctx, `
			INSERT INTO roles (name, description, status, rank, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			RETURNING id`, role.Name, role.Description, role.Status, role.Rank).Scan(&id)
	}
	if err != nil {
		return err
	}
	for _, alias := range aliases {
		if err := s.AttachPermission(ctx, id, alias); err != nil {
			return err
		}
	}
	return nil
}

// EnsureAdmin creates the default admin if the email is not taken, attached
// to the named role.
func (s *PGStore) EnsureAdmin(ctx context.Context, email, name, passwordHash, roleName string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO admins (email, name, password_hash, role_id, is_active, created_at, updated_at)
		SELECT $1, $2, $3, r.id, TRUE, NOW(), NOW()
		FROM roles r
		WHERE r.name = $4
		ON CONFLICT (email) DO NOTHING`, email, name, passwordHash, roleName)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
