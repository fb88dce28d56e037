package referrals

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/shared"
)

// Service coordinates referral reporting.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListStats returns one page of referrers ordered by referred count.
func (s *Service) ListStats(ctx context.Context, filters Filters) ([]Stat, shared.Pagination, error) {
	list, total, err := s.repo.ListStats(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list referral stats: %w", err)
	}
	return list, shared.NewPagination(filters.Page, filters.PerPage, total), nil
}

// ListReferred returns the accounts one referrer brought in.
func (s *Service) ListReferred(ctx context.Context, referrerID int64) ([]Referred, error) {
	return s.repo.ListReferred(ctx, referrerID)
}

// Lookup resolves a referral code for the landing signup form. Codes are
// case-insensitive.
func (s *Service) Lookup(ctx context.Context, code string) (*CodeOwner, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: referral code required", httpx.ErrValidation)
	}
	return s.repo.FindByCode(ctx, code)
}
