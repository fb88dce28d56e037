package audithttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/meridian-invest/meridian/internal/rbac"
)

const exportRateLimit = 10
const exportRateWindow = time.Minute

// MountRoutes registers the audit endpoints. Export gets its own tighter
// rate limit since a full export is an expensive query.
func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermViewAudits))
		gr.Get("/audits", h.list)
	})
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermDownloadAudits))
		gr.Use(httprate.Limit(exportRateLimit, exportRateWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			}),
		))
		gr.Get("/audits/export", h.export)
	})
}
