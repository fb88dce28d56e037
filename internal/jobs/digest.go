package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-invest/meridian/internal/audit"
)

// TypeAuditDigest is the scheduled task type for the daily audit failure
// summary.
const TypeAuditDigest = "audit:failure-digest"

// NewAuditDigestTask builds the scheduled digest task.
func NewAuditDigestTask() *asynq.Task {
	return asynq.NewTask(TypeAuditDigest, nil, asynq.MaxRetry(2))
}

// DigestHandler summarizes audit failures from the last 24 hours. The count
// lands in the worker log where the alerting pipeline picks it up.
type DigestHandler struct {
	logger  *slog.Logger
	trail   *audit.Service
	metrics *Metrics
	now     func() time.Time
}

// NewDigestHandler builds the handler.
func NewDigestHandler(logger *slog.Logger, trail *audit.Service, metrics *Metrics) *DigestHandler {
	return &DigestHandler{logger: logger, trail: trail, metrics: metrics, now: time.Now}
}

// ProcessTask implements asynq.Handler.
func (h *DigestHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	tracker := h.metrics.Track(TypeAuditDigest)

	since := h.now().UTC().Add(-24 * time.Hour)
	count, err := h.trail.FailureCountSince(ctx, since)
	if err != nil {
		h.logger.Error("audit digest", slog.Any("error", err))
		return tracker.End(err)
	}

	level := slog.LevelInfo
	if count > 0 {
		level = slog.LevelWarn
	}
	h.logger.Log(ctx, level, "daily audit digest",
		slog.Int64("failures_24h", count),
		slog.Time("since", since))
	return tracker.End(nil)
}
