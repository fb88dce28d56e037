package admins

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-invest/meridian/internal/shared"
)

// Service coordinates admin account administration.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of admins.
func (s *Service) List(ctx context.Context, filters Filters) ([]Admin, shared.Pagination, error) {
	list, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list admins: %w", err)
	}
	return list, shared.NewPagination(filters.Page, filters.PerPage, total), nil
}

// Get loads one admin.
func (s *Service) Get(ctx context.Context, id int64) (*Admin, error) {
	return s.repo.Get(ctx, id)
}

// Create provisions a new admin account with a hashed password. New accounts
// start active.
func (s *Service) Create(ctx context.Context, email, name, password string, roleID *int64) (*Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.Create(ctx, &Admin{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		RoleID:       roleID,
		IsActive:     true,
	})
}

// Update changes the display name and role assignment.
func (s *Service) Update(ctx context.Context, id int64, name string, roleID *int64) (*Admin, error) {
	return s.repo.Update(ctx, id, name, roleID)
}

// SetActive enables or disables an account. Disabled accounts fail login and
// lose access on their next gated request.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) (*Admin, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
