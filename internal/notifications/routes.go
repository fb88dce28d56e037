package notifications

import (
	"github.com/go-chi/chi/v5"

	"github.com/meridian-invest/meridian/internal/rbac"
)

// MountRoutes registers the notification endpoints under the admin router.
func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermViewNotifications))
		gr.Get("/notifications", h.list)
		gr.Get("/notifications/{id}", h.get)
	})
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermManageNotifications))
		gr.Post("/notifications", h.create)
		gr.Put("/notifications/{id}", h.update)
		gr.Post("/notifications/{id}/dispatch", h.dispatch)
		gr.Delete("/notifications/{id}", h.remove)
	})
}
