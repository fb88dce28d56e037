package banks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

// Repository defines data access for payout bank accounts.
type Repository interface {
	List(ctx context.Context, filters Filters) ([]Account, int, error)
	ListByUser(ctx context.Context, userID int64) ([]Account, error)
	Get(ctx context.Context, id int64) (*Account, error)
	Create(ctx context.Context, a *Account) (*Account, error)
	Update(ctx context.Context, a *Account) (*Account, error)
	SetVerified(ctx context.Context, id int64, verified bool) error
	Delete(ctx context.Context, id int64) error
}

// PGRepository provides PostgreSQL backed persistence for bank accounts.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const accountColumns = `id, user_id, bank_name, bank_code, account_number, account_name, currency, verified, created_at, updated_at`

func (r *PGRepository) List(ctx context.Context, filters Filters) ([]Account, int, error) {
	where, args := buildWhere(filters)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bank_accounts`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filters.PerPage, filters.Offset())
	query := fmt.Sprintf(`SELECT %s FROM bank_accounts%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		accountColumns, where, len(args)-1, len(args))
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

func (r *PGRepository) ListByUser(ctx context.Context, userID int64) ([]Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM bank_accounts WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAccounts(rows)
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM bank_accounts WHERE id = $1`, id))
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
		INSERT INTO bank_accounts (user_id, bank_name, bank_code, account_number, account_name, currency, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		a.UserID, a.BankName, a.BankCode, a.AccountNumber, a.AccountName, a.Currency, a.Verified,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: account %s at %s already registered", httpx.ErrDuplicate, a.AccountNumber, a.BankCode)
		}
		return nil, err
	}
	return a, nil
}

func (r *PGRepository) Update(ctx context.Context, a *Account) (*Account, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bank_accounts
		SET bank_name = $2, bank_code = $3, account_number = $4, account_name = $5, currency = $6, verified = FALSE, updated_at = NOW()
		WHERE id = $1`,
		a.ID, a.BankName, a.BankCode, a.AccountNumber, a.AccountName, a.Currency)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, httpx.ErrNotFound
	}
	return r.Get(ctx, a.ID)
}

func (r *PGRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE bank_accounts SET verified = $2, updated_at = NOW() WHERE id = $1`, id, verified)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bank_accounts WHERE id = $1`, id)
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
		add("(bank_name ILIKE '%%' || $%d || '%%' OR account_name ILIKE '%%' || $%[1]d || '%%' OR account_number ILIKE '%%' || $%[1]d || '%%')", filters.Search)
	}
	if filters.UserID != nil {
		add("user_id = $%d", *filters.UserID)
	}
	if filters.Verified != nil {
		add("verified = $%d", *filters.Verified)
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
	err := row.Scan(&a.ID, &a.UserID, &a.BankName, &a.BankCode, &a.AccountNumber,
		&a.AccountName, &a.Currency, &a.Verified, &a.CreatedAt, &a.UpdatedAt)
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
