package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-invest/meridian/internal/admins"
	"github.com/meridian-invest/meridian/internal/app"
	"github.com/meridian-invest/meridian/internal/audit"
	audithttp "github.com/meridian-invest/meridian/internal/audit/http"
	"github.com/meridian-invest/meridian/internal/auth"
	"github.com/meridian-invest/meridian/internal/banks"
	"github.com/meridian-invest/meridian/internal/blogs"
	"github.com/meridian-invest/meridian/internal/faqs"
	"github.com/meridian-invest/meridian/internal/landing"
	"github.com/meridian-invest/meridian/internal/notifications"
	"github.com/meridian-invest/meridian/internal/observability"
	"github.com/meridian-invest/meridian/internal/platform/cache"
	"github.com/meridian-invest/meridian/internal/platform/db"
	"github.com/meridian-invest/meridian/internal/rates"
	"github.com/meridian-invest/meridian/internal/rbac"
	"github.com/meridian-invest/meridian/internal/referrals"
	"github.com/meridian-invest/meridian/internal/settlements"
	"github.com/meridian-invest/meridian/internal/users"
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	queue := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("queue close", slog.Any("error", err))
		}
	}()

	rbacStore := rbac.NewStore(pool)
	if err := rbac.Bootstrap(ctx, rbacStore, rbac.SeedConfig{
		AdminEmail:    cfg.SeedAdminEmail,
		AdminName:     cfg.SeedAdminName,
		AdminPassword: cfg.SeedAdminPassword,
	}, logger); err != nil {
		logger.Error("seed roles", slog.Any("error", err))
		os.Exit(1)
	}
	rbacService := rbac.NewService(rbacStore)
	gate := rbac.Middleware{Service: rbacService, Logger: logger}

	auditRepo := audit.NewRepository(pool)
	auditService := audit.NewService(auditRepo)
	auditHandler := audithttp.NewHandler(logger, auditService)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	revoked := auth.NewRevocationStore(redisClient)
	authService := auth.NewService(auth.NewRepository(pool))
	authHandler := auth.NewHandler(logger, authService, tokens, revoked, auditService)
	authenticator := auth.Authenticator{Tokens: tokens, Revoked: revoked, Logger: logger}

	rolesHandler := rbac.NewHandler(logger, rbacService, auditService)

	adminsService := admins.NewService(admins.NewRepository(pool))
	adminsHandler := admins.NewHandler(logger, adminsService, auditService)

	usersService := users.NewService(users.NewRepository(pool))
	usersHandler := users.NewHandler(logger, usersService, auditService)

	banksService := banks.NewService(banks.NewRepository(pool))
	banksHandler := banks.NewHandler(logger, banksService, auditService)

	notifService := notifications.NewService(notifications.NewRepository(pool), queue)
	notifHandler := notifications.NewHandler(logger, notifService, auditService)

	faqService := faqs.NewService(faqs.NewRepository(pool))
	faqHandler := faqs.NewHandler(logger, faqService, auditService)

	rateService := rates.NewService(rates.NewRepository(pool))
	rateHandler := rates.NewHandler(logger, rateService, auditService)

	blogService := blogs.NewService(blogs.NewRepository(pool))
	blogHandler := blogs.NewHandler(logger, blogService, auditService)

	settlementService := settlements.NewService(settlements.NewRepository(pool))
	settlementHandler := settlements.NewHandler(logger, settlementService, auditService)

	referralService := referrals.NewService(referrals.NewRepository(pool))
	referralHandler := referrals.NewHandler(logger, referralService)

	landingHandler := landing.NewHandler(logger, faqService, blogService, rateService, notifService, settlementService, referralService)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		Authenticator: authenticator,
		Gate:          gate,

		AuthHandler:         authHandler,
		AdminsHandler:       adminsHandler,
		RolesHandler:        rolesHandler,
		AuditHandler:        auditHandler,
		UsersHandler:        usersHandler,
		BanksHandler:        banksHandler,
		NotificationHandler: notifHandler,
		FAQHandler:          faqHandler,
		RatesHandler:        rateHandler,
		BlogsHandler:        blogHandler,
		SettlementsHandler:  settlementHandler,
		ReferralsHandler:    referralHandler,
		LandingHandler:      landingHandler,

		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
