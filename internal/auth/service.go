package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// Finder is the lookup surface Authenticate needs.
type Finder interface {
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	FindByID(ctx context.Context, id int64) (*Admin, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo Finder
}

// NewService constructs a Service.
func NewService(repo Finder) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials against an active
// admin account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Admin, error) {
	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}
