package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseListQueryDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/admin/users", nil)
	q := ParseListQuery(r)
	if q.Page != 1 || q.PerPage != 20 {
		t.Fatalf("unexpected defaults: %+v", q)
	}
	if !q.From.IsZero() || !q.To.IsZero() {
		t.Fatalf("expected zero window: %+v", q)
	}
	if q.Offset() != 0 {
		t.Fatalf("expected offset 0, got %d", q.Offset())
	}
}

func TestParseListQueryClampsPerPage(t *testing.T) {
	r := httptest.NewRequest("GET", "/admin/users?page=3&perpage=500", nil)
	q := ParseListQuery(r)
	if q.PerPage != 100 {
		t.Fatalf("expected perpage clamped to 100, got %d", q.PerPage)
	}
	if q.Offset() != 200 {
		t.Fatalf("expected offset 200, got %d", q.Offset())
	}
}

func TestParseListQueryWindowInclusive(t *testing.T) {
	r := httptest.NewRequest("GET", "/admin/audits?from=2024-03-01&to=2024-03-10&search=wire", nil)
	q := ParseListQuery(r)
	if q.Search != "wire" {
		t.Fatalf("unexpected search: %q", q.Search)
	}
	if q.From != time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected from: %v", q.From)
	}
	// The `to` bound covers the whole closing day.
	if !q.To.After(time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("unexpected to: %v", q.To)
	}
}

func TestParseListQueryIgnoresBadValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/admin/users?page=abc&perpage=-4&from=10-03-2024", nil)
	q := ParseListQuery(r)
	if q.Page != 1 || q.PerPage != 20 || !q.From.IsZero() {
		t.Fatalf("bad values should fall back to defaults: %+v", q)
	}
}
