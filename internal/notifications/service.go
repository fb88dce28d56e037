package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/shared"
)

// TypeDispatch is the asynq task type for notification delivery.
const TypeDispatch = "notification:dispatch"

// DispatchPayload is the asynq task payload.
type DispatchPayload struct {
	NotificationID int64 `json:"notification_id"`
}

// NewDispatchTask builds the delivery task for one notification.
func NewDispatchTask(id int64) (*asynq.Task, error) {
	payload, err := json.Marshal(DispatchPayload{NotificationID: id})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDispatch, payload, asynq.MaxRetry(5), asynq.Timeout(time.Minute)), nil
}

// Enqueuer queues tasks for the background worker.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service coordinates notification administration and dispatch.
type Service struct {
	repo  Repository
	queue Enqueuer
}

// NewService constructs a Service. queue may be nil in worker-side contexts
// that only deliver.
func NewService(repo Repository, queue Enqueuer) *Service {
	return &Service{repo: repo, queue: queue}
}

// List returns one page of notifications.
func (s *Service) List(ctx context.Context, filters Filters) ([]Notification, shared.Pagination, error) {
	list, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list notifications: %w", err)
	}
	return list, shared.NewPagination(filters.Page, filters.PerPage, total), nil
}

// ListForUser returns dispatched notifications visible to one customer.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]Notification, error) {
	return s.repo.ListForUser(ctx, userID)
}

// ListBroadcast returns dispatched broadcast announcements for the landing
// site. User id zero never matches a real account so only audience=all rows
// come back.
func (s *Service) ListBroadcast(ctx context.Context) ([]Notification, error) {
	return s.repo.ListForUser(ctx, 0)
}

// Get loads one notification.
func (s *Service) Get(ctx context.Context, id int64) (*Notification, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new draft.
func (s *Service) Create(ctx context.Context, n Notification) (*Notification, error) {
	if err := validateAudience(n); err != nil {
		return nil, err
	}
	n.Status = StatusDraft
	return s.repo.Create(ctx, &n)
}

// Update rewrites a draft. Queued or dispatched notifications are frozen.
func (s *Service) Update(ctx context.Context, n Notification) (*Notification, error) {
	if err := validateAudience(n); err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, n.ID)
	if err != nil {
		return nil, err
	}
	if existing.Status != StatusDraft {
		return nil, fmt.Errorf("%w: only draft notifications can be edited", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, &n)
}

// Dispatch queues a draft for delivery. The status moves to QUEUED before the
// task is enqueued so a crashed enqueue is visible rather than silently lost.
func (s *Service) Dispatch(ctx context.Context, id int64) (*Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Status != StatusDraft {
		return nil, fmt.Errorf("%w: notification %d is already %s", httpx.ErrValidation, id, n.Status)
	}

	if err := s.repo.SetStatus(ctx, id, StatusQueued, nil); err != nil {
		return nil, err
	}
	task, err := NewDispatchTask(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.queue.EnqueueContext(ctx, task); err != nil {
		return nil, fmt.Errorf("enqueue dispatch: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Deliver finalizes a queued notification. Called by the worker; repeated
// delivery of the same id is a no-op so retries stay safe.
func (s *Service) Deliver(ctx context.Context, id int64, at time.Time) error {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if n.Status == StatusDispatched {
		return nil
	}
	at = at.UTC()
	return s.repo.SetStatus(ctx, id, StatusDispatched, &at)
}

// Delete removes a notification.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validateAudience(n Notification) error {
	switch n.Audience {
	case AudienceAll:
		if n.UserID != nil {
			return fmt.Errorf("%w: broadcast notifications must not name a user", httpx.ErrValidation)
		}
	case AudienceUser:
		if n.UserID == nil {
			return fmt.Errorf("%w: user notifications require a user id", httpx.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown audience %q", httpx.ErrValidation, n.Audience)
	}
	return nil
}
