package landing

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/referrals"
	"github.com/meridian-invest/meridian/internal/shared"
)

type stubReferralRepo struct {
	owners map[string]referrals.CodeOwner
}

func (r *stubReferralRepo) ListStats(_ context.Context, _ referrals.Filters) ([]referrals.Stat, int, error) {
	return nil, 0, nil
}

func (r *stubReferralRepo) ListReferred(_ context.Context, _ int64) ([]referrals.Referred, error) {
	return nil, nil
}

func (r *stubReferralRepo) FindByCode(_ context.Context, code string) (*referrals.CodeOwner, error) {
	owner, ok := r.owners[code]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &owner, nil
}

func newRouter(refRepo referrals.Repository) http.Handler {
	h := NewHandler(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		nil, nil, nil, nil, nil,
		referrals.NewService(refRepo),
	)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func TestLookupReferralIsCaseInsensitive(t *testing.T) {
	router := newRouter(&stubReferralRepo{owners: map[string]referrals.CodeOwner{
		"ADA2026": {Name: "Ada Lovelace", ReferralCode: "ADA2026"},
	}})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/landing/referrals/ada2026", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Ada Lovelace") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestLookupReferralUnknownCode(t *testing.T) {
	router := newRouter(&stubReferralRepo{owners: map[string]referrals.CodeOwner{}})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/landing/referrals/NOPE", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestLandingRoutesCarryNoIdentity(t *testing.T) {
	router := newRouter(&stubReferralRepo{owners: map[string]referrals.CodeOwner{
		"ADA2026": {Name: "Ada Lovelace", ReferralCode: "ADA2026"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/landing/referrals/ADA2026", nil)
	if _, ok := shared.IdentityFromContext(req.Context()); ok {
		t.Fatal("public requests must not carry an admin identity")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
