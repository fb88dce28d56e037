package banks

import (
	"context"
	"fmt"

	"golang.org/x/text/currency"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/shared"
)

// Service coordinates payout bank account administration.
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
		return nil, shared.Pagination{}, fmt.Errorf("list bank accounts: %w", err)
	}
	return list, shared.NewPagination(filters.Page, filters.PerPage, total), nil
}

// ListByUser returns every account registered by one customer.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]Account, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get loads one account.
func (s *Service) Get(ctx context.Context, id int64) (*Account, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new account. New accounts start unverified.
func (s *Service) Create(ctx context.Context, a Account) (*Account, error) {
	if err := validateCurrency(a.Currency); err != nil {
		return nil, err
	}
	a.Verified = false
	return s.repo.Create(ctx, &a)
}

// Update rewrites the account details. Any edit clears the verified flag so
// the account must be re-verified.
func (s *Service) Update(ctx context.Context, a Account) (*Account, error) {
	if err := validateCurrency(a.Currency); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, &a)
}

// SetVerified marks the account verified or not.
func (s *Service) SetVerified(ctx context.Context, id int64, verified bool) (*Account, error) {
	if err := s.repo.SetVerified(ctx, id, verified); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes the account.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validateCurrency(code string) error {
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("%w: unknown currency code %q", httpx.ErrValidation, code)
	}
	return nil
}
