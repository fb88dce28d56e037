package admins

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

// Repository defines data access for admin accounts.
type Repository interface {
	List(ctx context.Context, filters Filters) ([]Admin, int, error)
	Get(ctx context.Context, id int64) (*Admin, error)
	Create(ctx context.Context, a *Admin) (*Admin, error)
	Update(ctx context.Context, id int64, name string, roleID *int64) (*Admin, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

// PGRepository provides PostgreSQL backed persistence for admins.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const adminSelect = `
SELECT a.id, a.email, a.name, a.password_hash, a.role_id, r.name, a.is_active, a.created_at, a.updated_at
FROM admins a
LEFT JOIN roles r ON r.id = a.role_id`

// List returns one page of admins plus the total matching count.
func (r *PGRepository) List(ctx context.Context, filters Filters) ([]Admin, int, error) {
	where, args := buildWhere(filters)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins a`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.PerPage, filters.Offset())
	query := fmt.Sprintf(`%s%s ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d`,
		adminSelect, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Admin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *a)
	}
	return list, total, rows.Err()
}

// Get loads one admin with its role name.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Admin, error) {
	a, err := scanAdmin(r.pool.QueryRow(ctx, adminSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// Create inserts a new admin account.
func (r *PGRepository) Create(ctx context.Context, a *Admin) (*Admin, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO admins (email, name, password_hash, role_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		a.Email, a.Name, a.PasswordHash, a.RoleID, a.IsActive,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: an admin with email %s already exists", httpx.ErrDuplicate, a.Email)
		}
		return nil, err
	}
	return r.Get(ctx, a.ID)
}

// Update changes the display name and role assignment.
func (r *PGRepository) Update(ctx context.Context, id int64, name string, roleID *int64) (*Admin, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE admins SET name = $2, role_id = $3, updated_at = NOW() WHERE id = $1`,
		id, name, roleID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrNotFound
	}
	return r.Get(ctx, id)
}

// SetActive enables or disables the account.
func (r *PGRepository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE admins SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Delete removes the account.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func buildWhere(filters Filters) (string, []any) {
	var clauses []string
	var args []any

	if filters.Search != "" {
		args = append(args, filters.Search)
		clauses = append(clauses, fmt.Sprintf("(a.email ILIKE '%%' || $%d || '%%' OR a.name ILIKE '%%' || $%[1]d || '%%')", len(args)))
	}
	if filters.RoleID != nil {
		args = append(args, *filters.RoleID)
		clauses = append(clauses, fmt.Sprintf("a.role_id = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	where := " WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}

func scanAdmin(row pgx.Row) (*Admin, error) {
	var a Admin
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.RoleID, &a.RoleName,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
