package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

// Repository provides PostgreSQL backed admin lookups.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const adminColumns = `id, email, name, password_hash, role_id, is_active, created_at, updated_at`

// FindByEmail loads an admin account by email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE email = $1`, email))
}

// FindByID loads an admin account by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Admin, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id))
}

func (r *Repository) scanOne(row pgx.Row) (*Admin, error) {
	var admin Admin
	err := row.Scan(&admin.ID, &admin.Email, &admin.Name, &admin.PasswordHash,
		&admin.RoleID, &admin.IsActive, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}
