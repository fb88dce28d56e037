package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

// Repository defines data access for notifications.
type Repository interface {
	List(ctx context.Context, filters Filters) ([]Notification, int, error)
	ListForUser(ctx context.Context, userID int64) ([]Notification, error)
	Get(ctx context.Context, id int64) (*Notification, error)
	Create(ctx context.Context, n *Notification) (*Notification, error)
	Update(ctx context.Context, n *Notification) (*Notification, error)
	SetStatus(ctx context.Context, id int64, status string, dispatchedAt *time.Time) error
	Delete(ctx context.Context, id int64) error
}

// PGRepository provides PostgreSQL backed persistence for notifications.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const notificationColumns = `id, title, body, audience, user_id, status, dispatched_at, created_at, updated_at`

func (r *PGRepository) List(ctx context.Context, filters Filters) ([]Notification, int, error) {
	where, args := buildWhere(filters)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.PerPage, filters.Offset())
	query := fmt.Sprintf(`SELECT %s FROM notifications%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		notificationColumns, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	list, err := scanNotifications(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListForUser returns dispatched notifications addressed to the user or
// broadcast to everyone.
func (r *PGRepository) ListForUser(ctx context.Context, userID int64) ([]Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE status = $1 AND (audience = $2 OR user_id = $3)
		ORDER BY dispatched_at DESC`,
		StatusDispatched, AudienceAll, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Notification, error) {
	n, err := scanNotification(r.pool.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

func (r *PGRepository) Create(ctx context.Context, n *Notification) (*Notification, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (title, body, audience, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		n.Title, n.Body, n.Audience, n.UserID, n.Status,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *PGRepository) Update(ctx context.Context, n *Notification) (*Notification, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET title = $2, body = $3, audience = $4, user_id = $5, updated_at = NOW()
		WHERE id = $1`,
		n.ID, n.Title, n.Body, n.Audience, n.UserID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrNotFound
	}
	return r.Get(ctx, n.ID)
}

func (r *PGRepository) SetStatus(ctx context.Context, id int64, status string, dispatchedAt *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET status = $2, dispatched_at = $3, updated_at = NOW() WHERE id = $1`,
		id, status, dispatchedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
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

func scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.Title, &n.Body, &n.Audience, &n.UserID, &n.Status,
		&n.DispatchedAt, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func scanNotifications(rows pgx.Rows) ([]Notification, error) {
	var list []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *n)
	}
	return list, rows.Err()
}
