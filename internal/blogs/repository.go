package blogs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

// Repository defines data access for blog posts.
type Repository interface {
	List(ctx context.Context, filters Filters) ([]Post, int, error)
	ListPublished(ctx context.Context, filters Filters) ([]Post, int, error)
	Get(ctx context.Context, id int64) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	Create(ctx context.Context, p *Post) (*Post, error)
	Update(ctx context.Context, p *Post) (*Post, error)
	SetStatus(ctx context.Context, id int64, status string, publishedAt *time.Time) error
	Delete(ctx context.Context, id int64) error
}

// PGRepository provides PostgreSQL backed persistence for posts.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const postColumns = `id, slug, title, body, cover_url, status, author_id, published_at, created_at, updated_at`

func (r *PGRepository) List(ctx context.Context, filters Filters) ([]Post, int, error) {
	return r.list(ctx, filters, false)
}

func (r *PGRepository) ListPublished(ctx context.Context, filters Filters) ([]Post, int, error) {
	filters.Status = StatusPublished
	return r.list(ctx, filters, true)
}

func (r *PGRepository) list(ctx context.Context, filters Filters, byPublished bool) ([]Post, int, error) {
	where, args := buildWhere(filters)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blog_posts`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if byPublished {
		order = "published_at DESC"
	}
	args = append(args, filters.PerPage, filters.Offset())
	query := fmt.Sprintf(`SELECT %s FROM blog_posts%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		postColumns, where, order, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *p)
	}
	return list, total, rows.Err()
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PGRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PGRepository) Create(ctx context.Context, p *Post) (*Post, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO blog_posts (slug, title, body, cover_url, status, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		p.Slug, p.Title, p.Body, p.CoverURL, p.Status, p.AuthorID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: a post with slug %q already exists", httpx.ErrDuplicate, p.Slug)
		}
		return nil, err
	}
	return p, nil
}

func (r *PGRepository) Update(ctx context.Context, p *Post) (*Post, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE blog_posts SET slug = $2, title = $3, body = $4, cover_url = $5, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Slug, p.Title, p.Body, p.CoverURL)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: a post with slug %q already exists", httpx.ErrDuplicate, p.Slug)
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrNotFound
	}
	return r.Get(ctx, p.ID)
}

func (r *PGRepository) SetStatus(ctx context.Context, id int64, status string, publishedAt *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE blog_posts SET status = $2, published_at = $3, updated_at = NOW() WHERE id = $1`,
		id, status, publishedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
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
		add("(title ILIKE '%%' || $%d || '%%' OR body ILIKE '%%' || $%[1]d || '%%')", filters.Search)
	}
	if filters.Status != "" {
		add("status = $%d", filters.Status)
	}
	if !filters.From.IsZero() {
		add("created_at >= $%d", filters.From)
	}
	if !filters.To.IsZero() {
		add("created_at <= $%d", filters.To)
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

func scanPost(row pgx.Row) (*Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Body, &p.CoverURL, &p.Status,
		&p.AuthorID, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
