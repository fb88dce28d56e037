package audit

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-invest/meridian/internal/shared"
)

// Repository persists and reads audit records.
type Repository interface {
	Insert(ctx context.Context, rec Record) (Record, error)
	List(ctx context.Context, filters Filters) ([]Record, int, error)
	ListAll(ctx context.Context, filters Filters) ([]Record, error)
	CountFailuresSince(ctx context.Context, since time.Time) (int64, error)
}

// Entry describes the action being audited. Request metadata is captured
// separately from the originating *http.Request.
type Entry struct {
	Title   string
	Type    ActivityType
	Status  ActivityStatus
	Payload map[string]any
}

// Service appends audit records. Every call is exactly one insert; there is
// no update, dedup or batching path. Callers must await the returned error
// before responding so a trail is never silently lost.
type Service struct {
	repo Repository
}

// NewService constructs the audit service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var errInvalidEntry = errors.New("audit: entry requires title, activity type and status")

// Record snapshots the actor and request metadata and appends one record.
func (s *Service) Record(ctx context.Context, actor shared.Identity, entry Entry, r *http.Request) (Record, error) {
	if entry.Title == "" || !validType(entry.Type) || !validStatus(entry.Status) {
		return Record{}, errInvalidEntry
	}

	rec := Record{
		ID:        uuid.New(),
		Title:     entry.Title,
		ActorID:   actor.AdminID,
		ActorName: actor.Name,
		Type:      entry.Type,
		Status:    entry.Status,
		Payload:   entry.Payload,
		CreatedAt: time.Now().UTC(),
	}
	if r != nil {
		rec.Headers = r.Header.Clone()
		rec.SourceIP = r.RemoteAddr
		rec.Path = r.URL.RequestURI()
	}
	return s.repo.Insert(ctx, rec)
}

// List returns one page of records matching the filters plus the total count.
func (s *Service) List(ctx context.Context, filters Filters) ([]Record, shared.Pagination, error) {
	rows, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return rows, shared.NewPagination(filters.Page, filters.PerPage, total), nil
}

// Export returns every record matching the filters, without paging.
func (s *Service) Export(ctx context.Context, filters Filters) ([]Record, error) {
	return s.repo.ListAll(ctx, filters)
}

// FailureCountSince reports how many FAILURE records were written after the
// given instant. Used by the daily digest job.
func (s *Service) FailureCountSince(ctx context.Context, since time.Time) (int64, error) {
	return s.repo.CountFailuresSince(ctx, since)
}

func validType(t ActivityType) bool {
	switch t {
	case ActivityAccess, ActivityAudit, ActivityDownload:
		return true
	}
	return false
}

func validStatus(st ActivityStatus) bool {
	return st == StatusSuccess || st == StatusFailure
}
