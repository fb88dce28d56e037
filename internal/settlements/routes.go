package settlements

import (
	"github.com/go-chi/chi/v5"

	"github.com/meridian-invest/meridian/internal/rbac"
)

// MountRoutes registers the settlement account endpoints under the admin router.
func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermViewSettlements))
		gr.Get("/settlements", h.list)
		gr.Get("/settlements/{id}", h.get)
	})
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermManageSettlements))
		gr.Post("/settlements", h.create)
		gr.Put("/settlements/{id}", h.update)
		gr.Patch("/settlements/{id}/status", h.setStatus)
		gr.Delete("/settlements/{id}", h.remove)
	})
}
