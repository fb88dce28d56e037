package rbac

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meridian-invest/meridian/internal/shared"
)

func gatedRequest(t *testing.T, store *stubStore, alias string, identity *shared.Identity) *httptest.ResponseRecorder {
	t.Helper()
	mw := Middleware{Service: NewService(store)}
	var reached bool
	handler := mw.Require(alias)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	if identity != nil {
		req = req.WithContext(shared.ContextWithIdentity(req.Context(), *identity))
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK && reached {
		t.Fatal("handler ran despite denial")
	}
	return rr
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body.Error
}

func TestRequireMissingIdentity(t *testing.T) {
	rr := gatedRequest(t, newAuthzFixture(), "view-users", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if errorBody(t, rr) != "request admin identity missing" {
		t.Fatalf("unexpected error: %q", errorBody(t, rr))
	}
}

func TestRequirePassesThrough(t *testing.T) {
	// Scenario A: enabled role granting the exact alias.
	rr := gatedRequest(t, newAuthzFixture(), "view-users", &shared.Identity{AdminID: 1})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestRequireDeniesUngrantedAlias(t *testing.T) {
	// Scenario B: same admin, route gated on an alias the role lacks.
	rr := gatedRequest(t, newAuthzFixture(), "delete-users", &shared.Identity{AdminID: 1})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if got := errorBody(t, rr); got != "You do not have permission to access this resource" {
		t.Fatalf("unexpected error: %q", got)
	}
}

func TestRequireDeniesAfterRoleDisabled(t *testing.T) {
	// Scenario C: the previously passing admin's role gets disabled.
	store := newAuthzFixture()
	role := store.roles[10]
	role.Status = false
	store.roles[10] = role

	rr := gatedRequest(t, store, "view-users", &shared.Identity{AdminID: 1})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if got := errorBody(t, rr); got != "Role attached to this account is disabled" {
		t.Fatalf("unexpected error: %q", got)
	}
}
