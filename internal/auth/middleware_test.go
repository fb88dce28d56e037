package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meridian-invest/meridian/internal/shared"
)

func TestMiddlewareRequiresBearer(t *testing.T) {
	a := Authenticator{Tokens: NewTokenManager("test-secret", time.Hour)}
	handler := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	for _, header := range []string{"", "Basic abc", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rr.Code)
		}
	}
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	token, err := manager.Issue(&Admin{ID: 9, Email: "ops@meridian.test", Name: "Ada Ops"}, time.Now().UTC())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var got shared.Identity
	a := Authenticator{Tokens: manager}
	handler := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = shared.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got.AdminID != 9 || got.Name != "Ada Ops" {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestMiddlewareRejectsGarbageToken(t *testing.T) {
	a := Authenticator{Tokens: NewTokenManager("test-secret", time.Hour)}
	handler := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
