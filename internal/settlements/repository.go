package settlements

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

// Repository defines data access for settlement accounts.
type Repository interface {
	List(ctx context.Context, filters Filters) ([]Account, int, error)
	ListActive(ctx context.Context, currency string) ([]Account, error)
	Get(ctx context.Context, id int64) (*Account, error)
	Create(ctx context.Context, a *Account) (*Account, error)
	Update(ctx context.Context, a *Account) (*Account, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

// PGRepository provides PostgreSQL backed persistence for settlement accounts.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const settlementColumns = `id, label, bank_name, account_number, account_name, currency, active, created_at, updated_at`

func (r *PGRepository) List(ctx context.Context, filters Filters) ([]Account, int, error) {
	where, args := buildWhere(filters)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM settlement_accounts`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.PerPage, filters.Offset())
	query := fmt.Sprintf(`SELECT %s FROM settlement_accounts%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		settlementColumns, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	list, err := scanAccounts(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListActive returns active accounts, optionally for one currency. Used by the
// landing deposit-instructions endpoint.
func (r *PGRepository) ListActive(ctx context.Context, currency string) ([]Account, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlement_accounts WHERE active`
	var args []any
	if currency != "" {
		query += ` AND currency = $1`
		args = append(args, currency)
	}
	rows, err := r.pool.Query(ctx, query+` ORDER BY label`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAccounts(rows)
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+settlementColumns+` FROM settlement_accounts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *PGRepository) Create(ctx context.Context, a *Account) (*Account, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO settlement_accounts (label, bank_name, account_number, account_name, currency, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		a.Label, a.BankName, a.AccountNumber, a.AccountName, a.Currency, a.Active,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: a settlement account labelled %q already exists", httpx.ErrDuplicate, a.Label)
		}
		return nil, err
	}
	return a, nil
}

func (r *PGRepository) Update(ctx context.Context, a *Account) (*Account, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE settlement_accounts
		SET label = $2, bank_name = $3, account_number = $4, account_name = $5, currency = $6, updated_at = NOW()
		WHERE id = $1`,
		a.ID, a.Label, a.BankName, a.AccountNumber, a.AccountName, a.Currency)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: a settlement account labelled %q already exists", httpx.ErrDuplicate, a.Label)
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrNotFound
	}
	return r.Get(ctx, a.ID)
}

func (r *PGRepository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE settlement_accounts SET active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM settlement_accounts WHERE id = $1`, id)
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
		add("(label ILIKE '%%' || $%d || '%%' OR bank_name ILIKE '%%' || $%[1]d || '%%')", filters.Search)
	}
	if filters.Currency != "" {
		add("currency = $%d", filters.Currency)
	}
	if filters.Active != nil {
		add("active = $%d", *filters.Active)
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

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Label, &a.BankName, &a.AccountNumber, &a.AccountName,
		&a.Currency, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanAccounts(rows pgx.Rows) ([]Account, error) {
	var list []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
