package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-invest/meridian/internal/platform/db"
	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

// Repository defines data access for platform users.
type Repository interface {
	List(ctx context.Context, filters Filters) ([]User, int, error)
	ListAll(ctx context.Context, filters Filters) ([]User, error)
	Get(ctx context.Context, id int64) (*User, error)
	SetSuspended(ctx context.Context, id int64, suspended bool) error
	SetBlacklisted(ctx context.Context, id int64, blacklisted bool) error
	// WithTx runs fn against a repository bound to one transaction; any
	// error from fn rolls the whole transaction back.
	WithTx(ctx context.Context, fn func(Repository) error) error
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGRepository provides PostgreSQL backed persistence for users.
type PGRepository struct {
	pool *pgxpool.Pool
	q    querier
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool, q: pool}
}

const userColumns = `id, email, first_name, last_name, phone, country, referral_code, referred_by, suspended, blacklisted, created_at, updated_at`

// List returns one page of users plus the total matching count.
func (r *PGRepository) List(ctx context.Context, filters Filters) ([]User, int, error) {
	where, args := buildWhere(filters)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.PerPage, filters.Offset())
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	list, err := scanUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAll returns every matching user for CSV export.
func (r *PGRepository) ListAll(ctx context.Context, filters Filters) ([]User, error) {
	where, args := buildWhere(filters)
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users`+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// Get loads one user.
func (r *PGRepository) Get(ctx context.Context, id int64) (*User, error) {
	row := r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// SetSuspended flips the suspension flag.
func (r *PGRepository) SetSuspended(ctx context.Context, id int64, suspended bool) error {
	return r.setFlag(ctx, id, "suspended", suspended)
}

// SetBlacklisted flips the blacklist flag.
func (r *PGRepository) SetBlacklisted(ctx context.Context, id int64, blacklisted bool) error {
	return r.setFlag(ctx, id, "blacklisted", blacklisted)
}

func (r *PGRepository) setFlag(ctx context.Context, id int64, column string, value bool) error {
	tag, err := r.q.Exec(ctx,
		fmt.Sprintf(`UPDATE users SET %s = $2, updated_at = NOW() WHERE id = $1`, column), id, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// WithTx binds a repository to a single transaction.
func (r *PGRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&PGRepository{pool: r.pool, q: tx})
	})
}

func buildWhere(filters Filters) (string, []any) {
	var clauses []string
	var args []any
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filters.Search != "" {
		add("(email ILIKE '%%' || $%d || '%%' OR first_name ILIKE '%%' || $%[1]d || '%%' OR last_name ILIKE '%%' || $%[1]d || '%%')", filters.Search)
	}
	if !filters.From.IsZero() {
		add("created_at >= $%d", filters.From)
	}
	if !filters.To.IsZero() {
		add("created_at <= $%d", filters.To)
	}
	if filters.Blacklisted != nil {
		add("blacklisted = $%d", *filters.Blacklisted)
	}
	if filters.Suspended != nil {
		add("suspended = $%d", *filters.Suspended)
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

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone, &u.Country,
		&u.ReferralCode, &u.ReferredBy, &u.Suspended, &u.Blacklisted, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanUsers(rows pgx.Rows) ([]User, error) {
	var list []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}
