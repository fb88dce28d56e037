package users

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/meridian-invest/meridian/internal/rbac"
)

// MountRoutes registers the user-management endpoints under the admin router.
func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermViewUsers))
		gr.Get("/users", h.list)
		gr.Get("/users/{id}", h.get)
	})
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermManageUsers))
		gr.Patch("/users/{id}/suspend", h.setSuspended(true))
		gr.Patch("/users/{id}/restore", h.setSuspended(false))
	})
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermBlacklistUsers))
		gr.Patch("/users/{id}/blacklist", h.setBlacklisted(true))
		gr.Patch("/users/{id}/whitelist", h.setBlacklisted(false))
		gr.Post("/users/blacklist", h.setBlacklistBatch(true))
		gr.Post("/users/whitelist", h.setBlacklistBatch(false))
	})
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermDownloadUsers))
		gr.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		gr.Get("/users/export", h.export)
	})
}
