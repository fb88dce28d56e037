package notifications

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

// Handler serves the notification management endpoints.
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
	filters := Filters{
		ListQuery: shared.ParseListQuery(r),
		Status:    r.URL.Query().Get("status"),
	}
	list, pagination, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list notifications", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "notifications retrieved", map[string]any{
		"notifications": list,
		"pagination":    pagination,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	n, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "notification does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "notification retrieved", n)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := h.service.Create(r.Context(), Notification{
		Title:    req.Title,
		Body:     req.Body,
		Audience: req.Audience,
		UserID:   req.UserID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Created notification %q", n.Title)) {
		return
	}
	httpx.Created(w, "notification created", n)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	var req notificationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := h.service.Update(r.Context(), Notification{
		ID:       id,
		Title:    req.Title,
		Body:     req.Body,
		Audience: req.Audience,
		UserID:   req.UserID,
	})
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "notification does not exist")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Updated notification %q", n.Title)) {
		return
	}
	httpx.OK(w, "notification updated", n)
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	n, err := h.service.Dispatch(r.Context(), id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "notification does not exist")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Dispatched notification %q", n.Title)) {
		return
	}
	httpx.OK(w, "notification dispatched", n)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "notification does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Deleted notification %d", id)) {
		return
	}
	httpx.OK(w, "notification deleted", nil)
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
