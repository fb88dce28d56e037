package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

type stubRepo struct {
	byID   map[int64]*Notification
	nextID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: make(map[int64]*Notification), nextID: 1}
}

func (r *stubRepo) List(_ context.Context, _ Filters) ([]Notification, int, error) {
	var list []Notification
	for _, n := range r.byID {
		list = append(list, *n)
	}
	return list, len(list), nil
}

func (r *stubRepo) ListForUser(_ context.Context, userID int64) ([]Notification, error) {
	var list []Notification
	for _, n := range r.byID {
		if n.Status != StatusDispatched {
			continue
		}
		if n.Audience == AudienceAll || (n.UserID != nil && *n.UserID == userID) {
			list = append(list, *n)
		}
	}
	return list, nil
}

func (r *stubRepo) Get(_ context.Context, id int64) (*Notification, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *stubRepo) Create(_ context.Context, n *Notification) (*Notification, error) {
	n.ID = r.nextID
	r.nextID++
	r.byID[n.ID] = n
	copied := *n
	return &copied, nil
}

func (r *stubRepo) Update(_ context.Context, n *Notification) (*Notification, error) {
	existing, ok := r.byID[n.ID]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	n.Status = existing.Status
	r.byID[n.ID] = n
	copied := *n
	return &copied, nil
}

func (r *stubRepo) SetStatus(_ context.Context, id int64, status string, dispatchedAt *time.Time) error {
	n, ok := r.byID[id]
	if !ok {
		return httpx.ErrNotFound
	}
	n.Status = status
	n.DispatchedAt = dispatchedAt
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubQueue struct {
	tasks []*asynq.Task
	err   error
}

func (q *stubQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func TestDispatchEnqueuesTask(t *testing.T) {
	repo := newStubRepo()
	queue := &stubQueue{}
	svc := NewService(repo, queue)

	created, err := svc.Create(context.Background(), Notification{
		Title: "Maintenance window", Body: "Sunday 02:00 UTC", Audience: AudienceAll,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := svc.Dispatch(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if n.Status != StatusQueued {
		t.Fatalf("expected QUEUED, got %s", n.Status)
	}
	if len(queue.tasks) != 1 || queue.tasks[0].Type() != TypeDispatch {
		t.Fatalf("expected one %s task, got %v", TypeDispatch, queue.tasks)
	}

	var payload DispatchPayload
	if err := json.Unmarshal(queue.tasks[0].Payload(), &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.NotificationID != created.ID {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDispatchRejectsNonDraft(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, &stubQueue{})

	created, err := svc.Create(context.Background(), Notification{
		Title: "Once", Body: "only", Audience: AudienceAll,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Dispatch(context.Background(), created.ID); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}
	if _, err := svc.Dispatch(context.Background(), created.ID); !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("expected validation error on repeat dispatch, got %v", err)
	}
}

func TestDeliverIsIdempotent(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, &stubQueue{})

	created, err := svc.Create(context.Background(), Notification{
		Title: "Hello", Body: "world", Audience: AudienceAll,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := svc.Deliver(context.Background(), created.ID, first); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if err := svc.Deliver(context.Background(), created.ID, first.Add(time.Hour)); err != nil {
		t.Fatalf("repeat deliver: %v", err)
	}

	n, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if n.Status != StatusDispatched || n.DispatchedAt == nil || !n.DispatchedAt.Equal(first) {
		t.Fatalf("unexpected state after repeat delivery: %+v", n)
	}
}

func TestCreateValidatesAudience(t *testing.T) {
	svc := NewService(newStubRepo(), &stubQueue{})
	userID := int64(5)

	cases := []Notification{
		{Title: "x", Body: "y", Audience: AudienceAll, UserID: &userID},
		{Title: "x", Body: "y", Audience: AudienceUser},
		{Title: "x", Body: "y", Audience: "segment"},
	}
	for i, n := range cases {
		if _, err := svc.Create(context.Background(), n); !errors.Is(err, httpx.ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestUpdateFreezesQueuedNotifications(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, &stubQueue{})

	created, err := svc.Create(context.Background(), Notification{
		Title: "Draft", Body: "text", Audience: AudienceAll,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Dispatch(context.Background(), created.ID); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	_, err = svc.Update(context.Background(), Notification{
		ID: created.ID, Title: "Edited", Body: "text", Audience: AudienceAll,
	})
	if !errors.Is(err, httpx.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListForUserScopesAudience(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, &stubQueue{})
	other := int64(2)
	now := time.Now().UTC()

	broadcast, _ := svc.Create(context.Background(), Notification{Title: "All", Body: "b", Audience: AudienceAll})
	direct, _ := svc.Create(context.Background(), Notification{Title: "For 2", Body: "b", Audience: AudienceUser, UserID: &other})
	if _, err := svc.Create(context.Background(), Notification{Title: "Draft", Body: "b", Audience: AudienceAll}); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, id := range []int64{broadcast.ID, direct.ID} {
		if err := svc.Deliver(context.Background(), id, now); err != nil {
			t.Fatalf("deliver %d: %v", id, err)
		}
	}

	list, err := svc.ListForUser(context.Background(), 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected broadcast + direct, got %d", len(list))
	}

	list, err = svc.ListForUser(context.Background(), 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "All" {
		t.Fatalf("expected broadcast only, got %+v", list)
	}
}
