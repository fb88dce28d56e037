package faqs

import (
	"github.com/go-chi/chi/v5"

	"github.com/meridian-invest/meridian/internal/rbac"
)

// MountRoutes registers the FAQ endpoints under the admin router.
func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermViewFaqs))
		gr.Get("/faqs", h.list)
		gr.Get("/faqs/{id}", h.get)
	})
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermManageFaqs))
		gr.Post("/faqs", h.create)
		gr.Put("/faqs/{id}", h.update)
		gr.Delete("/faqs/{id}", h.remove)
	})
}
