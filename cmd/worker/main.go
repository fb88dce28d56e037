package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/meridian-invest/meridian/internal/app"
	"github.com/meridian-invest/meridian/internal/audit"
	"github.com/meridian-invest/meridian/internal/jobs"
	"github.com/meridian-invest/meridian/internal/notifications"
	"github.com/meridian-invest/meridian/internal/platform/db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// The worker only consumes the queue, so no enqueuer is wired in.
	notifService := notifications.NewService(notifications.NewRepository(pool), nil)
	auditService := audit.NewService(audit.NewRepository(pool))

	metrics := jobs.NewMetrics(nil)
	notifHandler := jobs.NewNotificationHandler(logger, notifService, metrics)
	digestHandler := jobs.NewDigestHandler(logger, auditService, metrics)

	server := jobs.NewServer(cfg.RedisAddr, cfg.WorkerConcurrency, logger)
	mux := jobs.NewMux(notifHandler, digestHandler)

	scheduler, err := jobs.NewScheduler(cfg.RedisAddr, logger)
	if err != nil {
		logger.Error("configure scheduler", slog.Any("error", err))
		os.Exit(1)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("scheduler", slog.Any("error", err))
			stop()
		}
	}()

	go func() {
		logger.Info("starting worker", slog.Int("concurrency", cfg.WorkerConcurrency))
		if err := server.Run(mux); err != nil {
			logger.Error("worker", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	scheduler.Shutdown()
	server.Shutdown()
}
