package faqs

import (
	"context"
	"fmt"

	"github.com/meridian-invest/meridian/internal/shared"
)

// Service coordinates FAQ administration.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of FAQ entries.
func (s *Service) List(ctx context.Context, filters Filters) ([]FAQ, shared.Pagination, error) {
	list, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list faqs: %w", err)
	}
	return list, shared.NewPagination(filters.Page, filters.PerPage, total), nil
}

// ListPublished returns published entries for the landing site, optionally
// scoped to one category.
func (s *Service) ListPublished(ctx context.Context, category string) ([]FAQ, error) {
	return s.repo.ListPublished(ctx, category)
}

// Get loads one entry.
func (s *Service) Get(ctx context.Context, id int64) (*FAQ, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new entry.
func (s *Service) Create(ctx context.Context, f FAQ) (*FAQ, error) {
	return s.repo.Create(ctx, &f)
}

// Update rewrites an entry.
func (s *Service) Update(ctx context.Context, f FAQ) (*FAQ, error) {
	return s.repo.Update(ctx, &f)
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
