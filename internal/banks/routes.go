package banks

import (
	"github.com/go-chi/chi/v5"

	"github.com/meridian-invest/meridian/internal/rbac"
)

// MountRoutes registers the bank account endpoints under the admin router.
func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermViewBanks))
		gr.Get("/banks", h.list)
		gr.Get("/banks/{id}", h.get)
	})
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermManageBanks))
		gr.Post("/banks", h.create)
		gr.Put("/banks/{id}", h.update)
		gr.Patch("/banks/{id}/verify", h.setVerified)
		gr.Delete("/banks/{id}", h.remove)
	})
}
