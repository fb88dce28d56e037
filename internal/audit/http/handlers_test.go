package audithttp

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meridian-invest/meridian/internal/audit"
	"github.com/meridian-invest/meridian/internal/shared"
)

type memRepo struct {
	records []audit.Record
}

func (m *memRepo) Insert(ctx context.Context, rec audit.Record) (audit.Record, error) {
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *memRepo) List(ctx context.Context, filters audit.Filters) ([]audit.Record, int, error) {
	return m.records, len(m.records), nil
}

func (m *memRepo) ListAll(ctx context.Context, filters audit.Filters) ([]audit.Record, error) {
	return m.records, nil
}

func (m *memRepo) CountFailuresSince(ctx context.Context, since time.Time) (int64, error) {
	return 0, nil
}

func newHandler(repo *memRepo) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, audit.NewService(repo))
}

func TestListReturnsEnvelope(t *testing.T) {
	repo := &memRepo{records: []audit.Record{{Title: "Created role ops", ActorName: "Root"}}}
	h := newHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/admin/audits?page=1", nil)
	rr := httptest.NewRecorder()
	h.list(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `"message":"audit records retrieved"`) {
		t.Fatalf("missing envelope message: %s", body)
	}
	if !strings.Contains(body, "Created role ops") {
		t.Fatalf("missing record: %s", body)
	}
}

func TestExportWritesCSVAndLeavesTrail(t *testing.T) {
	repo := &memRepo{records: []audit.Record{{
		Title:     "Blacklisted user 9",
		ActorName: "Ada Ops",
		Type:      audit.ActivityAudit,
		Status:    audit.StatusSuccess,
		SourceIP:  "203.0.113.9:1",
		Path:      "/admin/users/9/blacklist",
		CreatedAt: time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC),
	}}}
	h := newHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/admin/audits/export", nil)
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), shared.Identity{AdminID: 1, Name: "Root"}))
	rr := httptest.NewRecorder()
	h.export(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("unexpected content type: %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "Blacklisted user 9") {
		t.Fatalf("missing row: %s", rr.Body.String())
	}
	// The download itself must have been audited, awaited, before the body.
	last := repo.records[len(repo.records)-1]
	if last.Type != audit.ActivityDownload || last.Title != "Exported audit trail" {
		t.Fatalf("expected download trail record, got %+v", last)
	}
}

func TestExportWithoutIdentity(t *testing.T) {
	h := newHandler(&memRepo{})
	req := httptest.NewRequest(http.MethodGet, "/admin/audits/export", nil)
	rr := httptest.NewRecorder()
	h.export(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
