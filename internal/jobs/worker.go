// Package jobs hosts the asynq task handlers and worker wiring.
package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/meridian-invest/meridian/internal/notifications"
)

// auditDigestCron fires the daily digest at 08:00 UTC.
const auditDigestCron = "0 8 * * *"

// NewServer builds the asynq worker server.
func NewServer(redisAddr string, concurrency int, logger *slog.Logger) *asynq.Server {
	return asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 5,
				"low":     1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("task failed",
					slog.String("type", task.Type()),
					slog.Any("error", err))
			}),
		},
	)
}

// NewMux registers every task handler.
func NewMux(notif *NotificationHandler, digest *DigestHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(notifications.TypeDispatch, notif)
	mux.Handle(TypeAuditDigest, digest)
	return mux
}

// NewScheduler registers the recurring tasks.
func NewScheduler(redisAddr string, logger *slog.Logger) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: redisAddr}, nil)
	if _, err := scheduler.Register(auditDigestCron, NewAuditDigestTask(), asynq.Queue("low")); err != nil {
		return nil, err
	}
	logger.Info("scheduler configured", slog.String("audit_digest", auditDigestCron))
	return scheduler, nil
}
