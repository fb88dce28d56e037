package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

type stubFinder struct {
	byEmail map[string]*Admin
}

func (s *stubFinder) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	admin, ok := s.byEmail[email]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return admin, nil
}

func (s *stubFinder) FindByID(ctx context.Context, id int64) (*Admin, error) {
	for _, admin := range s.byEmail {
		if admin.ID == id {
			return admin, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(hash)
}

func TestAuthenticate(t *testing.T) {
	repo := &stubFinder{byEmail: map[string]*Admin{
		"ops@meridian.test":      {ID: 1, Email: "ops@meridian.test", PasswordHash: mustHash(t, "s3cret"), IsActive: true},
		"disabled@meridian.test": {ID: 2, Email: "disabled@meridian.test", PasswordHash: mustHash(t, "s3cret"), IsActive: false},
	}}
	svc := NewService(repo)

	admin, err := svc.Authenticate(context.Background(), "ops@meridian.test", "s3cret")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if admin.ID != 1 {
		t.Fatalf("unexpected admin: %+v", admin)
	}

	cases := []struct{ email, password string }{
		{"ops@meridian.test", "wrong"},
		{"nobody@meridian.test", "s3cret"},
		{"disabled@meridian.test", "s3cret"},
	}
	for _, tc := range cases {
		if _, err := svc.Authenticate(context.Background(), tc.email, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %s, got %v", tc.email, err)
		}
	}
}
