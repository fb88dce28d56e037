package referrals

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

// Repository reads referral relationships off the users table.
type Repository interface {
	ListStats(ctx context.Context, filters Filters) ([]Stat, int, error)
	ListReferred(ctx context.Context, referrerID int64) ([]Referred, error)
	FindByCode(ctx context.Context, code string) (*CodeOwner, error)
}

// PGRepository provides PostgreSQL backed referral queries.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListStats returns referrers ordered by referred count.
func (r *PGRepository) ListStats(ctx context.Context, filters Filters) ([]Stat, int, error) {
	where := ""
	var args []any
	if filters.Search != "" {
		args = append(args, filters.Search)
		where = ` AND (u.email ILIKE '%' || $1 || '%' OR u.first_name ILIKE '%' || $1 || '%' OR u.last_name ILIKE '%' || $1 || '%')`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT u.id) FROM users u
		JOIN users ref ON ref.referred_by = u.id
		WHERE TRUE`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.PerPage, filters.Offset())
	query := fmt.Sprintf(`
		SELECT u.id, TRIM(u.first_name || ' ' || u.last_name), u.email, u.referral_code, COUNT(ref.id)
		FROM users u
		JOIN users ref ON ref.referred_by = u.id
		WHERE TRUE%s
		GROUP BY u.id, u.first_name, u.last_name, u.email, u.referral_code
		ORDER BY COUNT(ref.id) DESC, u.id
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Stat
	for rows.Next() {
		var s Stat
		if err := rows.Scan(&s.UserID, &s.Name, &s.Email, &s.ReferralCode, &s.TotalReferred); err != nil {
			return nil, 0, err
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// ListReferred returns the accounts a referrer brought in.
func (r *PGRepository) ListReferred(ctx context.Context, referrerID int64) ([]Referred, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, TRIM(first_name || ' ' || last_name), email, created_at
		FROM users WHERE referred_by = $1
		ORDER BY created_at DESC`, referrerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Referred
	for rows.Next() {
		var ref Referred
		if err := rows.Scan(&ref.UserID, &ref.Name, &ref.Email, &ref.JoinedAt); err != nil {
			return nil, err
		}
		list = append(list, ref)
	}
	return list, rows.Err()
}

// FindByCode resolves a referral code to its owner.
func (r *PGRepository) FindByCode(ctx context.Context, code string) (*CodeOwner, error) {
	var owner CodeOwner
	err := r.pool.QueryRow(ctx, `
		SELECT TRIM(first_name || ' ' || last_name), referral_code
		FROM users WHERE referral_code = $1 AND NOT blacklisted AND NOT suspended`, code,
	).Scan(&owner.Name, &owner.ReferralCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &owner, nil
}
