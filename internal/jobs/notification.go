package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-invest/meridian/internal/notifications"
)

// NotificationHandler delivers queued notifications.
type NotificationHandler struct {
	logger  *slog.Logger
	service *notifications.Service
	metrics *Metrics
	now     func() time.Time
}

// NewNotificationHandler builds the handler.
func NewNotificationHandler(logger *slog.Logger, service *notifications.Service, metrics *Metrics) *NotificationHandler {
	return &NotificationHandler{logger: logger, service: service, metrics: metrics, now: time.Now}
}

// ProcessTask implements asynq.Handler. Delivery is idempotent so asynq
// retries are safe.
func (h *NotificationHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	tracker := h.metrics.Track(notifications.TypeDispatch)

	var payload notifications.DispatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// A malformed payload never becomes valid; skip retries.
		return tracker.End(fmt.Errorf("decode dispatch payload: %v: %w", err, asynq.SkipRetry))
	}

	if err := h.service.Deliver(ctx, payload.NotificationID, h.now()); err != nil {
		h.logger.Error("deliver notification",
			slog.Int64("notification_id", payload.NotificationID),
			slog.Any("error", err))
		return tracker.End(err)
	}
	h.logger.Info("notification delivered", slog.Int64("notification_id", payload.NotificationID))
	return tracker.End(nil)
}
