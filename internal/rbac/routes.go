package rbac

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the role and permission endpoints under the admin
// router. Every group is gated on its exact permission alias.
func (h *Handler) MountRoutes(r chi.Router, gate Middleware) {
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(PermViewRoles))
		gr.Get("/roles", h.listRoles)
		gr.Get("/roles/{id}", h.getRole)
	})
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(PermManageRoles))
		gr.Post("/roles", h.createRole)
		gr.Put("/roles/{id}", h.updateRole)
		gr.Patch("/roles/{id}/status", h.setRoleStatus)
		gr.Post("/roles/{id}/permissions", h.attachPermission)
		gr.Delete("/roles/{id}/permissions/{alias}", h.detachPermission)
		gr.Delete("/roles/{id}", h.deleteRole)
	})
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(PermViewPermissions))
		gr.Get("/permissions", h.listPermissions)
	})
}
