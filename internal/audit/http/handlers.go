// Package audithttp serves the admin audit-trail endpoints.
package audithttp

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/meridian-invest/meridian/internal/audit"
	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/shared"
)

// Handler exposes listing and CSV export over the audit trail.
type Handler struct {
	logger  *slog.Logger
	service *audit.Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *audit.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r)
	records, pagination, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list audit records", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "audit records retrieved", map[string]any{
		"records":    records,
		"pagination": pagination,
	})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "request admin identity missing")
		return
	}

	filters := parseFilters(r)
	records, err := h.service.Export(r.Context(), filters)
	if err != nil {
		h.logger.Error("export audit records", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	out, err := audit.ExportCSV(records)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The export itself is a sensitive read and leaves its own trail. The
	// write is awaited before any bytes are sent.
	if _, err := h.service.Record(r.Context(), actor, audit.Entry{
		Title:   "Exported audit trail",
		Type:    audit.ActivityDownload,
		Status:  audit.StatusSuccess,
		Payload: map[string]any{"rows": len(records)},
	}, r); err != nil {
		h.logger.Error("record audit export", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=audit-%s.csv", time.Now().UTC().Format("20060102")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func parseFilters(r *http.Request) audit.Filters {
	q := r.URL.Query()
	return audit.Filters{
		ListQuery: shared.ParseListQuery(r),
		Type:      audit.ActivityType(q.Get("type")),
		Status:    audit.ActivityStatus(q.Get("status")),
	}
}
