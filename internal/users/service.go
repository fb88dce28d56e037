package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/shared"
)

// BatchError reports the per-user failures that aborted a batch operation.
// Every mutation in the batch is rolled back when this is returned.
type BatchError struct {
	Failures []string
}

func (e *BatchError) Error() string {
	return strings.Join(e.Failures, "; ")
}

// Service coordinates user administration.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of users.
func (s *Service) List(ctx context.Context, filters Filters) ([]User, shared.Pagination, error) {
	list, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list users: %w", err)
	}
	return list, shared.NewPagination(filters.Page, filters.PerPage, total), nil
}

// Get loads one user.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

// SetSuspended suspends or restores one user.
func (s *Service) SetSuspended(ctx context.Context, id int64, suspended bool) (*User, error) {
	if err := s.repo.SetSuspended(ctx, id, suspended); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// SetBlacklisted blacklists or whitelists one user.
func (s *Service) SetBlacklisted(ctx context.Context, id int64, blacklisted bool) (*User, error) {
	if err := s.repo.SetBlacklisted(ctx, id, blacklisted); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// SetBlacklistBatch applies the blacklist flag to every listed user inside
// one transaction. If any user cannot be updated the whole batch rolls back
// and a BatchError names each failure.
func (s *Service) SetBlacklistBatch(ctx context.Context, ids []int64, blacklisted bool) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: no user ids supplied", httpx.ErrValidation)
	}
	return s.repo.WithTx(ctx, func(tx Repository) error {
		var failures []string
		for _, id := range ids {
			if err := tx.SetBlacklisted(ctx, id, blacklisted); err != nil {
				if errors.Is(err, httpx.ErrNotFound) {
					failures = append(failures, fmt.Sprintf("user %d does not exist", id))
					continue
				}
				return fmt.Errorf("update user %d: %w", id, err)
			}
		}
		if len(failures) > 0 {
			return &BatchError{Failures: failures}
		}
		return nil
	})
}

// Export returns every user matching the filters for CSV download.
func (s *Service) Export(ctx context.Context, filters Filters) ([]User, error) {
	return s.repo.ListAll(ctx, filters)
}
