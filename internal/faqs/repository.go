package faqs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

// Repository defines data access for FAQ entries.
type Repository interface {
	List(ctx context.Context, filters Filters) ([]FAQ, int, error)
	ListPublished(ctx context.Context, category string) ([]FAQ, error)
	Get(ctx context.Context, id int64) (*FAQ, error)
	Create(ctx context.Context, f *FAQ) (*FAQ, error)
	Update(ctx context.Context, f *FAQ) (*FAQ, error)
	Delete(ctx context.Context, id int64) error
}

// PGRepository provides PostgreSQL backed persistence for FAQs.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const faqColumns = `id, question, answer, category, position, published, created_at, updated_at`

func (r *PGRepository) List(ctx context.Context, filters Filters) ([]FAQ, int, error) {
	where, args := buildWhere(filters)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM faqs`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.PerPage, filters.Offset())
	query := fmt.Sprintf(`SELECT %s FROM faqs%s ORDER BY position, id LIMIT $%d OFFSET $%d`,
		faqColumns, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	list, err := scanFAQs(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *PGRepository) ListPublished(ctx context.Context, category string) ([]FAQ, error) {
	query := `SELECT ` + faqColumns + ` FROM faqs WHERE published`
	var args []any
	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	rows, err := r.pool.Query(ctx, query+` ORDER BY position, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFAQs(rows)
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*FAQ, error) {
	f, err := scanFAQ(r.pool.QueryRow(ctx, `SELECT `+faqColumns+` FROM faqs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *PGRepository) Create(ctx context.Context, f *FAQ) (*FAQ, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO faqs (question, answer, category, position, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		f.Question, f.Answer, f.Category, f.Position, f.Published,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *PGRepository) Update(ctx context.Context, f *FAQ) (*FAQ, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE faqs SET question = $2, answer = $3, category = $4, position = $5, published = $6, updated_at = NOW()
		WHERE id = $1`,
		f.ID, f.Question, f.Answer, f.Category, f.Position, f.Published)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrNotFound
	}
	return r.Get(ctx, f.ID)
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM faqs WHERE id = $1`, id)
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

	if filters.Search != "" {
		add("(question ILIKE '%%' || $%d || '%%' OR answer ILIKE '%%' || $%[1]d || '%%')", filters.Search)
	}
	if filters.Category != "" {
		add("category = $%d", filters.Category)
	}
	if filters.Published != nil {
		add("published = $%d", *filters.Published)
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

func scanFAQ(row pgx.Row) (*FAQ, error) {
	var f FAQ
	err := row.Scan(&f.ID, &f.Question, &f.Answer, &f.Category, &f.Position,
		&f.Published, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func scanFAQs(rows pgx.Rows) ([]FAQ, error) {
	var list []FAQ
	for rows.Next() {
		f, err := scanFAQ(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *f)
	}
	return list, rows.Err()
}
