package rates

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

// Repository defines data access for exchange rates.
type Repository interface {
	List(ctx context.Context, filters Filters) ([]Rate, int, error)
	Get(ctx context.Context, id int64) (*Rate, error)
	Current(ctx context.Context, base, quote string) (*Rate, error)
	Create(ctx context.Context, rate *Rate) (*Rate, error)
	Update(ctx context.Context, rate *Rate) (*Rate, error)
	Delete(ctx context.Context, id int64) error
}

// PGRepository provides PostgreSQL backed persistence for rates.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const rateColumns = `id, base, quote, rate, effective_at, created_at, updated_at`

func (r *PGRepository) List(ctx context.Context, filters Filters) ([]Rate, int, error) {
	where, args := buildWhere(filters)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM exchange_rates`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.PerPage, filters.Offset())
	query := fmt.Sprintf(`SELECT %s FROM exchange_rates%s ORDER BY effective_at DESC LIMIT $%d OFFSET $%d`,
		rateColumns, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Rate
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *rate)
	}
	return list, total, rows.Err()
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Rate, error) {
	rate, err := scanRate(r.pool.QueryRow(ctx, `SELECT `+rateColumns+` FROM exchange_rates WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return rate, nil
}

// Current returns the newest effective rate for the pair.
func (r *PGRepository) Current(ctx context.Context, base, quote string) (*Rate, error) {
	rate, err := scanRate(r.pool.QueryRow(ctx, `
		SELECT `+rateColumns+` FROM exchange_rates
		WHERE base = $1 AND quote = $2 AND effective_at <= NOW()
		ORDER BY effective_at DESC LIMIT 1`, base, quote))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return rate, nil
}

func (r *PGRepository) Create(ctx context.Context, rate *Rate) (*Rate, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO exchange_rates (base, quote, rate, effective_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		rate.Base, rate.Quote, rate.Rate, rate.EffectiveAt,
	).Scan(&rate.ID, &rate.CreatedAt, &rate.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rate, nil
}

func (r *PGRepository) Update(ctx context.Context, rate *Rate) (*Rate, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE exchange_rates SET rate = $2, effective_at = $3, updated_at = NOW() WHERE id = $1`,
		rate.ID, rate.Rate, rate.EffectiveAt)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrNotFound
	}
	return r.Get(ctx, rate.ID)
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exchange_rates WHERE id = $1`, id)
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
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filters.Base != "" {
		add("base = $%d", filters.Base)
	}
	if filters.Quote != "" {
		add("quote = $%d", filters.Quote)
	}
	if !filters.From.IsZero() {
		add("effective_at >= $%d", filters.From)
	}
	if !filters.To.IsZero() {
		add("effective_at <= $%d", filters.To)
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

func scanRate(row pgx.Row) (*Rate, error) {
	var rate Rate
	err := row.Scan(&rate.ID, &rate.Base, &rate.Quote, &rate.Rate,
		&rate.EffectiveAt, &rate.CreatedAt, &rate.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rate, nil
}
