package audit

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meridian-invest/meridian/internal/shared"
)

type stubRepo struct {
	inserted []Record
	listRows []Record
	total    int
}

func (s *stubRepo) Insert(ctx context.Context, rec Record) (Record, error) {
	s.inserted = append(s.inserted, rec)
	return rec, nil
}

func (s *stubRepo) List(ctx context.Context, filters Filters) ([]Record, int, error) {
	return s.listRows, s.total, nil
}

func (s *stubRepo) ListAll(ctx context.Context, filters Filters) ([]Record, error) {
	return s.listRows, nil
}

func (s *stubRepo) CountFailuresSince(ctx context.Context, since time.Time) (int64, error) {
	return int64(len(s.listRows)), nil
}

func TestRecordSnapshotsRequestMetadata(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	req := httptest.NewRequest("POST", "/admin/users/7/blacklist?reason=fraud", nil)
	req.RemoteAddr = "203.0.113.9:51423"
	req.Header.Set("X-Request-Id", "abc-123")

	rec, err := svc.Record(context.Background(), shared.Identity{AdminID: 5, Name: "Ada Ops"}, Entry{
		Title:  "Blacklisted user 7",
		Type:   ActivityAudit,
		Status: StatusSuccess,
	}, req)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if rec.Path != "/admin/users/7/blacklist?reason=fraud" {
		t.Fatalf("unexpected path: %q", rec.Path)
	}
	if rec.SourceIP != "203.0.113.9:51423" {
		t.Fatalf("unexpected source ip: %q", rec.SourceIP)
	}
	if rec.Headers.Get("X-Request-Id") != "abc-123" {
		t.Fatalf("headers not snapshotted: %v", rec.Headers)
	}
	if rec.ActorName != "Ada Ops" || rec.ActorID != 5 {
		t.Fatalf("actor not snapshotted: %+v", rec)
	}

	// Mutating the request afterwards must not change the stored snapshot.
	req.Header.Set("X-Request-Id", "changed")
	if repo.inserted[0].Headers.Get("X-Request-Id") != "abc-123" {
		t.Fatal("snapshot shares storage with the live request headers")
	}
}

func TestRecordNeverDeduplicates(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	req := httptest.NewRequest("GET", "/admin/audits/export", nil)
	actor := shared.Identity{AdminID: 1, Name: "Root"}
	entry := Entry{Title: "Exported audit trail", Type: ActivityDownload, Status: StatusSuccess}

	first, err := svc.Record(context.Background(), actor, entry, req)
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	second, err := svc.Record(context.Background(), actor, entry, req)
	if err != nil {
		t.Fatalf("second record: %v", err)
	}

	if len(repo.inserted) != 2 {
		t.Fatalf("expected 2 inserts, got %d", len(repo.inserted))
	}
	if first.ID == second.ID {
		t.Fatal("identical calls must still produce distinct records")
	}
}

func TestRecordRejectsInvalidEntries(t *testing.T) {
	svc := NewService(&stubRepo{})
	req := httptest.NewRequest("GET", "/", nil)
	cases := []Entry{
		{Title: "", Type: ActivityAudit, Status: StatusSuccess},
		{Title: "t", Type: "BOGUS", Status: StatusSuccess},
		{Title: "t", Type: ActivityAccess, Status: "MAYBE"},
	}
	for _, entry := range cases {
		if _, err := svc.Record(context.Background(), shared.Identity{}, entry, req); err == nil {
			t.Fatalf("expected rejection for %+v", entry)
		}
	}
}

func TestListWrapsPagination(t *testing.T) {
	repo := &stubRepo{listRows: []Record{{Title: "a"}, {Title: "b"}}, total: 41}
	svc := NewService(repo)
	rows, pagination, err := svc.List(context.Background(), Filters{ListQuery: shared.ListQuery{Page: 2, PerPage: 20}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if pagination.TotalPages != 3 || pagination.Page != 2 {
		t.Fatalf("unexpected pagination: %+v", pagination)
	}
}
