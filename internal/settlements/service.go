package settlements

import (
	"context"
	"fmt"

	"golang.org/x/text/currency"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/shared"
)

// Service coordinates settlement account administration.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of accounts.
func (s *Service) List(ctx context.Context, filters Filters) ([]Account, shared.Pagination, error) {
	list, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list settlement accounts: %w", err)
	}
	return list, shared.NewPagination(filters.Page, filters.PerPage, total), nil
}

// ListActive returns active accounts for deposit instructions.
func (s *Service) ListActive(ctx context.Context, currencyCode string) ([]Account, error) {
	if currencyCode != "" {
		if _, err := currency.ParseISO(currencyCode); err != nil {
			return nil, fmt.Errorf("%w: unknown currency code %q", httpx.ErrValidation, currencyCode)
		}
	}
	return s.repo.ListActive(ctx, currencyCode)
}

// Get loads one account.
func (s *Service) Get(ctx context.Context, id int64) (*Account, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new account. New accounts start active.
func (s *Service) Create(ctx context.Context, a Account) (*Account, error) {
	if _, err := currency.ParseISO(a.Currency); err != nil {
		return nil, fmt.Errorf("%w: unknown currency code %q", httpx.ErrValidation, a.Currency)
	}
	a.Active = true
	return s.repo.Create(ctx, &a)
}

// Update rewrites the account details.
func (s *Service) Update(ctx context.Context, a Account) (*Account, error) {
	if _, err := currency.ParseISO(a.Currency); err != nil {
		return nil, fmt.Errorf("%w: unknown currency code %q", httpx.ErrValidation, a.Currency)
	}
	return s.repo.Update(ctx, &a)
}

// SetActive enables or retires an account.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) (*Account, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
