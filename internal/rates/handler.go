package rates

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-invest/meridian/internal/audit"
	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/shared"
)

type createRateRequest struct {
	Base        string     `json:"base" validate:"required,len=3"`
	Quote       string     `json:"quote" validate:"required,len=3"`
	Rate        float64    `json:"rate" validate:"required,gt=0"`
	EffectiveAt *time.Time `json:"effective_at"`
}

type updateRateRequest struct {
	Rate        float64    `json:"rate" validate:"required,gt=0"`
	EffectiveAt *time.Time `json:"effective_at"`
}

// Handler serves the exchange-rate management endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	trail    *audit.Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, trail *audit.Service) *Handler {
	return &Handler{logger: logger, service: service, trail: trail, validate: validator.New()}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := Filters{
		ListQuery: shared.ParseListQuery(r),
		Base:      q.Get("base"),
		Quote:     q.Get("quote"),
	}
	list, pagination, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list rates", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "rates retrieved", map[string]any{
		"rates":      list,
		"pagination": pagination,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid rate id")
		return
	}
	rate, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "rate does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "rate retrieved", rate)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	rate := Rate{Base: req.Base, Quote: req.Quote, Rate: req.Rate}
	if req.EffectiveAt != nil {
		rate.EffectiveAt = *req.EffectiveAt
	}
	created, err := h.service.Create(r.Context(), rate)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Created rate %s/%s", created.Base, created.Quote)) {
		return
	}
	httpx.Created(w, "rate created", created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid rate id")
		return
	}
	var req updateRateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	rate := Rate{ID: id, Rate: req.Rate}
	if req.EffectiveAt != nil {
		rate.EffectiveAt = *req.EffectiveAt
	}
	updated, err := h.service.Update(r.Context(), rate)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "rate does not exist")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Updated rate %s/%s", updated.Base, updated.Quote)) {
		return
	}
	httpx.OK(w, "rate updated", updated)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid rate id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "rate does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Deleted rate %d", id)) {
		return
	}
	httpx.OK(w, "rate deleted", nil)
}

func (h *Handler) recordAudit(w http.ResponseWriter, r *http.Request, title string) bool {
	actor, _ := shared.IdentityFromContext(r.Context())
	if _, err := h.trail.Record(r.Context(), actor, audit.Entry{
		Title:  title,
		Type:   audit.ActivityAudit,
		Status: audit.StatusSuccess,
	}, r); err != nil {
		h.logger.Error("record audit", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return false
	}
	return true
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
