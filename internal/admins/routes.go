package admins

import (
	"github.com/go-chi/chi/v5"

	"github.com/meridian-invest/meridian/internal/rbac"
)

// MountRoutes registers the admin account endpoints under the admin router.
func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermViewAdmins))
		gr.Get("/admins", h.list)
		gr.Get("/admins/{id}", h.get)
	})
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermManageAdmins))
		gr.Post("/admins", h.create)
		gr.Put("/admins/{id}", h.update)
		gr.Patch("/admins/{id}/status", h.setStatus)
		gr.Delete("/admins/{id}", h.remove)
	})
}
