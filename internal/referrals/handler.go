package referrals

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/rbac"
	"github.com/meridian-invest/meridian/internal/shared"
)

// Handler serves the referral reporting endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the referral endpoints under the admin router.
func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(gr chi.Router) {
		gr.Use(gate.Require(rbac.PermViewReferrals))
		gr.Get("/referrals", h.listStats)
		gr.Get("/referrals/{id}", h.listReferred)
	})
}

func (h *Handler) listStats(w http.ResponseWriter, r *http.Request) {
	filters := Filters{ListQuery: shared.ParseListQuery(r)}
	list, pagination, err := h.service.ListStats(r.Context(), filters)
	if err != nil {
		h.logger.Error("list referral stats", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "referral stats retrieved", map[string]any{
		"referrers":  list,
		"pagination": pagination,
	})
}

func (h *Handler) listReferred(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid referrer id")
		return
	}
	list, err := h.service.ListReferred(r.Context(), id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "referrer does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "referred users retrieved", list)
}
