package admins

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

// Handler serves the admin account management endpoints.
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
	filters := parseFilters(r)
	list, pagination, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list admins", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "admins retrieved", map[string]any{
		"admins":     list,
		"pagination": pagination,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid admin id")
		return
	}
	admin, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "admin does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "admin retrieved", admin)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	admin, err := h.service.Create(r.Context(), req.Email, req.Name, req.Password, req.RoleID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Created admin %s", admin.Email), nil) {
		return
	}
	httpx.Created(w, "admin created", admin)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid admin id")
		return
	}
	var req updateAdminRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	admin, err := h.service.Update(r.Context(), id, req.Name, req.RoleID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "admin does not exist")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Updated admin %s", admin.Email), nil) {
		return
	}
	httpx.OK(w, "admin updated", admin)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid admin id")
		return
	}
	var req adminStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	admin, err := h.service.SetActive(r.Context(), id, *req.IsActive)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "admin does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	action := "Disabled"
	if *req.IsActive {
		action = "Enabled"
	}
	if !h.recordAudit(w, r, fmt.Sprintf("%s admin %s", action, admin.Email), nil) {
		return
	}
	httpx.OK(w, "admin status updated", admin)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid admin id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "admin does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Deleted admin %d", id), nil) {
		return
	}
	httpx.OK(w, "admin deleted", nil)
}

func (h *Handler) recordAudit(w http.ResponseWriter, r *http.Request, title string, payload map[string]any) bool {
	actor, _ := shared.IdentityFromContext(r.Context())
	if _, err := h.trail.Record(r.Context(), actor, audit.Entry{
		Title:   title,
		Type:    audit.ActivityAudit,
		Status:  audit.StatusSuccess,
		Payload: payload,
	}, r); err != nil {
		h.logger.Error("record audit", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return false
	}
	return true
}

func parseFilters(r *http.Request) Filters {
	filters := Filters{ListQuery: shared.ParseListQuery(r)}
	if v, err := strconv.ParseInt(r.URL.Query().Get("role_id"), 10, 64); err == nil && v > 0 {
		filters.RoleID = &v
	}
	return filters
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
