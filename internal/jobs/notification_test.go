package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/meridian-invest/meridian/internal/notifications"
	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

type memNotificationRepo struct {
	byID map[int64]*notifications.Notification
}

func (r *memNotificationRepo) List(_ context.Context, _ notifications.Filters) ([]notifications.Notification, int, error) {
	return nil, 0, nil
}

func (r *memNotificationRepo) ListForUser(_ context.Context, _ int64) ([]notifications.Notification, error) {
	return nil, nil
}

func (r *memNotificationRepo) Get(_ context.Context, id int64) (*notifications.Notification, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *memNotificationRepo) Create(_ context.Context, n *notifications.Notification) (*notifications.Notification, error) {
	r.byID[n.ID] = n
	return n, nil
}

func (r *memNotificationRepo) Update(_ context.Context, n *notifications.Notification) (*notifications.Notification, error) {
	r.byID[n.ID] = n
	return n, nil
}

func (r *memNotificationRepo) SetStatus(_ context.Context, id int64, status string, dispatchedAt *time.Time) error {
	n, ok := r.byID[id]
	if !ok {
		return httpx.ErrNotFound
	}
	n.Status = status
	n.DispatchedAt = dispatchedAt
	return nil
}

func (r *memNotificationRepo) Delete(_ context.Context, id int64) error {
	delete(r.byID, id)
	return nil
}

func TestProcessDispatchTask(t *testing.T) {
	repo := &memNotificationRepo{byID: map[int64]*notifications.Notification{
		7: {ID: 7, Title: "Maintenance", Status: notifications.StatusQueued},
	}}
	handler := NewNotificationHandler(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		notifications.NewService(repo, nil),
		NewMetrics(prometheus.NewRegistry()),
	)

	task, err := notifications.NewDispatchTask(7)
	if err != nil {
		t.Fatalf("task: %v", err)
	}
	if err := handler.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process: %v", err)
	}
	if got := repo.byID[7]; got.Status != notifications.StatusDispatched || got.DispatchedAt == nil {
		t.Fatalf("unexpected state: %+v", got)
	}
}

func TestProcessDispatchTaskSkipsMalformedPayload(t *testing.T) {
	handler := NewNotificationHandler(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		notifications.NewService(&memNotificationRepo{byID: map[int64]*notifications.Notification{}}, nil),
		NewMetrics(prometheus.NewRegistry()),
	)

	task := asynq.NewTask(notifications.TypeDispatch, []byte("{not json"))
	err := handler.ProcessTask(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

func TestAuditDigestCountsFailures(t *testing.T) {
	trail := &stubTrailRepo{failures: 3}
	handler := NewDigestHandler(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		newAuditService(trail),
		NewMetrics(prometheus.NewRegistry()),
	)

	if err := handler.ProcessTask(context.Background(), NewAuditDigestTask()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if trail.calls != 1 {
		t.Fatalf("expected one count query, got %d", trail.calls)
	}
}
