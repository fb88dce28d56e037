package rates

import (
	"github.com/go-chi/chi/v5"

	"github.com/meridian-invest/meridian/internal/rbac"
)

// MountRoutes registers the exchange-rate endpoints under the admin router.
func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermViewRates))
		gr.Get("/rates", h.list)
		gr.Get("/rates/{id}", h.get)
	})
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermManageRates))
		gr.Post("/rates", h.create)
		gr.Put("/rates/{id}", h.update)
		gr.Delete("/rates/{id}", h.remove)
	})
}
