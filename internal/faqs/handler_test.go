package faqs

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meridian-invest/meridian/internal/audit"
	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/shared"
)

type memFAQRepo struct {
	byID   map[int64]*FAQ
	nextID int64
}

func (r *memFAQRepo) List(_ context.Context, _ Filters) ([]FAQ, int, error) {
	var list []FAQ
	for _, f := range r.byID {
		list = append(list, *f)
	}
	return list, len(list), nil
}

func (r *memFAQRepo) ListPublished(_ context.Context, category string) ([]FAQ, error) {
	var list []FAQ
	for _, f := range r.byID {
		if f.Published && (category == "" || f.Category == category) {
			list = append(list, *f)
		}
	}
	return list, nil
}

func (r *memFAQRepo) Get(_ context.Context, id int64) (*FAQ, error) {
	f, ok := r.byID[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *memFAQRepo) Create(_ context.Context, f *FAQ) (*FAQ, error) {
	r.nextID++
	f.ID = r.nextID
	r.byID[f.ID] = f
	copied := *f
	return &copied, nil
}

func (r *memFAQRepo) Update(_ context.Context, f *FAQ) (*FAQ, error) {
	if _, ok := r.byID[f.ID]; !ok {
		return nil, httpx.ErrNotFound
	}
	r.byID[f.ID] = f
	copied := *f
	return &copied, nil
}

func (r *memFAQRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type memAuditRepo struct {
	records []audit.Record
}

func (r *memAuditRepo) Insert(_ context.Context, rec audit.Record) (audit.Record, error) {
	r.records = append(r.records, rec)
	return rec, nil
}

func (r *memAuditRepo) List(_ context.Context, _ audit.Filters) ([]audit.Record, int, error) {
	return r.records, len(r.records), nil
}

func (r *memAuditRepo) ListAll(_ context.Context, _ audit.Filters) ([]audit.Record, error) {
	return r.records, nil
}

func (r *memAuditRepo) CountFailuresSince(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func newFixture() (*Handler, *memFAQRepo, *memAuditRepo) {
	repo := &memFAQRepo{byID: make(map[int64]*FAQ)}
	trailRepo := &memAuditRepo{}
	h := NewHandler(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		NewService(repo),
		audit.NewService(trailRepo),
	)
	return h, repo, trailRepo
}

func adminRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := shared.ContextWithIdentity(req.Context(), shared.Identity{AdminID: 1, Name: "Ada Ops"})
	return req.WithContext(ctx)
}

func TestCreateFAQLeavesAuditRecord(t *testing.T) {
	h, repo, trail := newFixture()

	rr := httptest.NewRecorder()
	req := adminRequest(http.MethodPost, "/admin/faqs",
		`{"question":"How do deposits work?","answer":"Via bank transfer.","category":"deposits","position":1,"published":true}`)
	h.create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Message string `json:"message"`
		Data    FAQ    `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "faq created" || body.Data.ID == 0 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected one stored faq, got %d", len(repo.byID))
	}
	if len(trail.records) != 1 || trail.records[0].Type != audit.ActivityAudit {
		t.Fatalf("expected one audit record, got %+v", trail.records)
	}
}

func TestCreateFAQRejectsInvalidBody(t *testing.T) {
	h, repo, trail := newFixture()

	rr := httptest.NewRecorder()
	req := adminRequest(http.MethodPost, "/admin/faqs", `{"question":"?"}`)
	h.create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if len(repo.byID) != 0 || len(trail.records) != 0 {
		t.Fatal("rejected requests must not persist or audit")
	}
}
