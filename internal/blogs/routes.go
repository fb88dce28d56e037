package blogs

import (
	"github.com/go-chi/chi/v5"

	"github.com/meridian-invest/meridian/internal/rbac"
)

// MountRoutes registers the blog endpoints under the admin router.
func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermViewBlogs))
		gr.Get("/blogs", h.list)
		gr.Get("/blogs/{id}", h.get)
	})
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermManageBlogs))
		gr.Post("/blogs", h.create)
		gr.Put("/blogs/{id}", h.update)
		gr.Patch("/blogs/{id}/publish", h.publish)
		gr.Patch("/blogs/{id}/unpublish", h.unpublish)
		gr.Delete("/blogs/{id}", h.remove)
	})
}
