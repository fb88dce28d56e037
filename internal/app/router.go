package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-invest/meridian/internal/admins"
	audithttp "github.com/meridian-invest/meridian/internal/audit/http"
	"github.com/meridian-invest/meridian/internal/auth"
	"github.com/meridian-invest/meridian/internal/banks"
	"github.com/meridian-invest/meridian/internal/blogs"
	"github.com/meridian-invest/meridian/internal/faqs"
	"github.com/meridian-invest/meridian/internal/landing"
	"github.com/meridian-invest/meridian/internal/notifications"
	"github.com/meridian-invest/meridian/internal/observability"
	"github.com/meridian-invest/meridian/internal/rates"
	"github.com/meridian-invest/meridian/internal/rbac"
	"github.com/meridian-invest/meridian/internal/referrals"
	"github.com/meridian-invest/meridian/internal/settlements"
	"github.com/meridian-invest/meridian/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	Authenticator auth.Authenticator
	Gate          rbac.Middleware

	AuthHandler         *auth.Handler
	AdminsHandler       *admins.Handler
	RolesHandler        *rbac.Handler
	AuditHandler        *audithttp.Handler
	UsersHandler        *users.Handler
	BanksHandler        *banks.Handler
	NotificationHandler *notifications.Handler
	FAQHandler          *faqs.Handler
	RatesHandler        *rates.Handler
	BlogsHandler        *blogs.Handler
	SettlementsHandler  *settlements.Handler
	ReferralsHandler    *referrals.Handler
	LandingHandler      *landing.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Meridian defaults. Public routes
// (health, metrics, landing, login) sit outside the token middleware; every
// /admin route passes identity extraction and then its permission gate.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	params.AuthHandler.MountPublicRoutes(r)
	params.LandingHandler.MountRoutes(r)

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(params.Authenticator.Middleware)

		params.AuthHandler.MountRoutes(ar)
		params.AdminsHandler.MountRoutes(ar, params.Gate)
		params.RolesHandler.MountRoutes(ar, params.Gate)
		params.AuditHandler.MountRoutes(ar, params.Gate)
		params.UsersHandler.MountRoutes(ar, params.Gate)
		params.BanksHandler.MountRoutes(ar, params.Gate)
		params.NotificationHandler.MountRoutes(ar, params.Gate)
		params.FAQHandler.MountRoutes(ar, params.Gate)
		params.RatesHandler.MountRoutes(ar, params.Gate)
		params.BlogsHandler.MountRoutes(ar, params.Gate)
		params.SettlementsHandler.MountRoutes(ar, params.Gate)
		params.ReferralsHandler.MountRoutes(ar, params.Gate)
	})

	return r
}
