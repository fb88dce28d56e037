package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

const loginRateLimit = 10
const loginRateWindow = time.Minute

// MountPublicRoutes registers login, which sits outside the authenticated
// router and carries a tight per-IP rate limit.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Group(func(gr chi.Router) {
		gr.Use(httprate.Limit(loginRateLimit, loginRateWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			}),
		))
		gr.Post("/auth/login", h.login)
	})
}

// MountRoutes registers the authenticated auth endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/auth/logout", h.logout)
}
