package faqs

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-invest/meridian/internal/audit"
	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/shared"
)

type faqRequest struct {
	Question  string `json:"question" validate:"required,min=5"`
	Answer    string `json:"answer" validate:"required"`
	Category  string `json:"category" validate:"required,min=2,max=60"`
	Position  int    `json:"position" validate:"gte=0"`
	Published bool   `json:"published"`
}

// Handler serves the FAQ management endpoints.
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
		Category:  q.Get("category"),
	}
	if v, err := strconv.ParseBool(q.Get("published")); err == nil {
		filters.Published = &v
	}

	list, pagination, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list faqs", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "faqs retrieved", map[string]any{
		"faqs":       list,
		"pagination": pagination,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid faq id")
		return
	}
	f, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "faq does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "faq retrieved", f)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req faqRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	f, err := h.service.Create(r.Context(), FAQ{
		Question:  req.Question,
		Answer:    req.Answer,
		Category:  req.Category,
		Position:  req.Position,
		Published: req.Published,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Created faq %d", f.ID)) {
		return
	}
	httpx.Created(w, "faq created", f)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid faq id")
		return
	}
	var req faqRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	f, err := h.service.Update(r.Context(), FAQ{
		ID:        id,
		Question:  req.Question,
		Answer:    req.Answer,
		Category:  req.Category,
		Position:  req.Position,
		Published: req.Published,
	})
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "faq does not exist")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Updated faq %d", f.ID)) {
		return
	}
	httpx.OK(w, "faq updated", f)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid faq id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "faq does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Deleted faq %d", id)) {
		return
	}
	httpx.OK(w, "faq deleted", nil)
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
