package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository provides PostgreSQL backed persistence for audit records.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Insert appends one record. Records are never updated or deleted.
func (r *PGRepository) Insert(ctx context.Context, rec Record) (Record, error) {
	headers, err := json.Marshal(rec.Headers)
	if err != nil {
		return Record{}, fmt.Errorf("audit: marshal headers: %w", err)
	}
	var payload []byte
	if rec.Payload != nil {
		payload, err = json.Marshal(rec.Payload)
		if err != nil {
			return Record{}, fmt.Errorf("audit: marshal payload: %w", err)
		}
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO audit_records (id, title, actor_id, actor_name, activity_type, activity_status, headers, payload, source_ip, path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.Title, rec.ActorID, rec.ActorName, string(rec.Type), string(rec.Status),
		headers, payload, rec.SourceIP, rec.Path, rec.CreatedAt)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List returns one page of records plus the total matching count.
func (r *PGRepository) List(ctx context.Context, filters Filters) ([]Record, int, error) {
	where, args := buildWhere(filters)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_records`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.PerPage, filters.Offset())
	query := fmt.Sprintf(`
		SELECT id, title, actor_id, actor_name, activity_type, activity_status, headers, payload, source_ip, path, created_at
		FROM audit_records%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListAll returns every matching record, newest first.
func (r *PGRepository) ListAll(ctx context.Context, filters Filters) ([]Record, error) {
	where, args := buildWhere(filters)
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, actor_id, actor_name, activity_type, activity_status, headers, payload, source_ip, path, created_at
		FROM audit_records`+where+`
		ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// CountFailuresSince counts FAILURE records newer than the given instant.
func (r *PGRepository) CountFailuresSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM audit_records WHERE activity_status = $1 AND created_at >= $2`,
		string(StatusFailure), since).Scan(&count)
	return count, err
}

func buildWhere(filters Filters) (string, []any) {
	var clauses []string
	var args []any
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filters.Search != "" {
		add("(title ILIKE '%%' || $%d || '%%' OR actor_name ILIKE '%%' || $%[1]d || '%%')", filters.Search)
	}
	if !filters.From.IsZero() {
		add("created_at >= $%d", filters.From)
	}
	if !filters.To.IsZero() {
		add("created_at <= $%d", filters.To)
	}
	if filters.Type != "" {
		add("activity_type = $%d", string(filters.Type))
	}
	if filters.Status != "" {
		add("activity_status = $%d", string(filters.Status))
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

type pgRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRecords(rows pgRows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var rec Record
		var activityType, activityStatus string
		var headers, payload []byte
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.ActorID, &rec.ActorName, &activityType, &activityStatus,
			&headers, &payload, &rec.SourceIP, &rec.Path, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Type = ActivityType(activityType)
		rec.Status = ActivityStatus(activityStatus)
		if len(headers) > 0 {
			var h http.Header
			if err := json.Unmarshal(headers, &h); err != nil {
				return nil, fmt.Errorf("audit: unmarshal headers: %w", err)
			}
			rec.Headers = h
		}
		if len(payload) > 0 {
			var p map[string]any
			if err := json.Unmarshal(payload, &p); err != nil {
				return nil, fmt.Errorf("audit: unmarshal payload: %w", err)
			}
			rec.Payload = p
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
