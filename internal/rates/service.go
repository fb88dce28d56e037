package rates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/currency"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/shared"
)

// Service coordinates exchange-rate administration.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns one page of rates.
func (s *Service) List(ctx context.Context, filters Filters) ([]Rate, shared.Pagination, error) {
	list, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list rates: %w", err)
	}
	return list, shared.NewPagination(filters.Page, filters.PerPage, total), nil
}

// Get loads one rate.
func (s *Service) Get(ctx context.Context, id int64) (*Rate, error) {
	return s.repo.Get(ctx, id)
}

// Current returns the newest effective rate for a pair.
func (s *Service) Current(ctx context.Context, base, quote string) (*Rate, error) {
	pair, err := normalizePair(base, quote)
	if err != nil {
		return nil, err
	}
	return s.repo.Current(ctx, pair[0], pair[1])
}

// Create stores a new quote. A zero effective time means effective now.
func (s *Service) Create(ctx context.Context, rate Rate) (*Rate, error) {
	pair, err := normalizePair(rate.Base, rate.Quote)
	if err != nil {
		return nil, err
	}
	if rate.Rate <= 0 {
		return nil, fmt.Errorf("%w: rate must be positive", httpx.ErrValidation)
	}
	rate.Base, rate.Quote = pair[0], pair[1]
	if rate.EffectiveAt.IsZero() {
		rate.EffectiveAt = s.now().UTC()
	}
	return s.repo.Create(ctx, &rate)
}

// Update rewrites the quote value and effective time.
func (s *Service) Update(ctx context.Context, rate Rate) (*Rate, error) {
	if rate.Rate <= 0 {
		return nil, fmt.Errorf("%w: rate must be positive", httpx.ErrValidation)
	}
	if rate.EffectiveAt.IsZero() {
		rate.EffectiveAt = s.now().UTC()
	}
	return s.repo.Update(ctx, &rate)
}

// Delete removes a quote.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// normalizePair validates both codes as ISO 4217 and upper-cases them.
func normalizePair(base, quote string) ([2]string, error) {
	b, err := currency.ParseISO(base)
	if err != nil {
		return [2]string{}, fmt.Errorf("%w: unknown currency code %q", httpx.ErrValidation, base)
	}
	q, err := currency.ParseISO(quote)
	if err != nil {
		return [2]string{}, fmt.Errorf("%w: unknown currency code %q", httpx.ErrValidation, quote)
	}
	if b == q {
		return [2]string{}, fmt.Errorf("%w: base and quote must differ", httpx.ErrValidation)
	}
	return [2]string{strings.ToUpper(b.String()), strings.ToUpper(q.String())}, nil
}
