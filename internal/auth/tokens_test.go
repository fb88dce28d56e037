package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	admin := &Admin{ID: 7, Email: "ops@meridian.test", Name: "Ada Ops"}

	token, err := manager.Issue(admin, time.Now().UTC())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "7" || claims.Email != "ops@meridian.test" || claims.Name != "Ada Ops" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti")
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue(&Admin{ID: 1}, time.Now().UTC())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewTokenManager("secret-b", time.Hour).Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Minute)
	token, err := manager.Issue(&Admin{ID: 1}, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := manager.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRevocationStore(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRevocationStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("expected fresh jti, got revoked=%v err=%v", revoked, err)
	}

	if err := store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err = store.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected revoked, got revoked=%v err=%v", revoked, err)
	}

	// Entries expire with the token itself.
	mr.FastForward(2 * time.Hour)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("expected expiry, got revoked=%v err=%v", revoked, err)
	}
}

func TestRevokeSkipsExpiredTokens(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRevocationStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	if err := store.Revoke(context.Background(), "jti-old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if mr.Exists(revocationKey("jti-old")) {
		t.Fatal("expired token should not be stored")
	}
}
