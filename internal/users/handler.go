package users

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

// Handler serves the admin user-management endpoints.
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
		h.logger.Error("list users", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "users retrieved", map[string]any{
		"users":      list,
		"pagination": pagination,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "user does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "user retrieved", user)
}

func (h *Handler) setSuspended(suspended bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid user id")
			return
		}
		user, err := h.service.SetSuspended(r.Context(), id, suspended)
		if err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				httpx.Error(w, http.StatusNotFound, "user does not exist")
				return
			}
			httpx.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		action, message := "Suspended", "user suspended"
		if !suspended {
			action, message = "Restored", "user restored"
		}
		if !h.recordAudit(w, r, fmt.Sprintf("%s user %s", action, user.Email), nil) {
			return
		}
		httpx.OK(w, message, user)
	}
}

func (h *Handler) setBlacklisted(blacklisted bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid user id")
			return
		}
		user, err := h.service.SetBlacklisted(r.Context(), id, blacklisted)
		if err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				httpx.Error(w, http.StatusNotFound, "user does not exist")
				return
			}
			httpx.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		action, message := "Blacklisted", "user blacklisted"
		if !blacklisted {
			action, message = "Whitelisted", "user whitelisted"
		}
		if !h.recordAudit(w, r, fmt.Sprintf("%s user %s", action, user.Email), nil) {
			return
		}
		httpx.OK(w, message, user)
	}
}

func (h *Handler) setBlacklistBatch(blacklisted bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req batchBlacklistRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := h.validate.Struct(req); err != nil {
			httpx.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		action, message := "Blacklisted", "users blacklisted"
		if !blacklisted {
			action, message = "Whitelisted", "users whitelisted"
		}

		if err := h.service.SetBlacklistBatch(r.Context(), req.UserIDs, blacklisted); err != nil {
			var batchErr *BatchError
			if errors.As(err, &batchErr) {
				// Nothing was persisted; leave a failure trail naming the
				// rejected ids.
				if !h.recordFailure(w, r, fmt.Sprintf("%s %d users", action, len(req.UserIDs)), map[string]any{
					"user_ids": req.UserIDs,
					"failures": batchErr.Failures,
				}) {
					return
				}
				httpx.Error(w, http.StatusBadRequest, batchErr.Error())
				return
			}
			httpx.RespondError(w, err)
			return
		}
		if !h.recordAudit(w, r, fmt.Sprintf("%s %d users", action, len(req.UserIDs)), map[string]any{
			"user_ids": req.UserIDs,
		}) {
			return
		}
		httpx.OK(w, message, nil)
	}
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "request admin identity missing")
		return
	}

	filters := parseFilters(r)
	list, err := h.service.Export(r.Context(), filters)
	if err != nil {
		h.logger.Error("export users", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	out, err := ExportCSV(list)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if _, err := h.trail.Record(r.Context(), actor, audit.Entry{
		Title:   "Exported users",
		Type:    audit.ActivityDownload,
		Status:  audit.StatusSuccess,
		Payload: map[string]any{"rows": len(list)},
	}, r); err != nil {
		h.logger.Error("record user export", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=users-%s.csv", time.Now().UTC().Format("20060102")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (h *Handler) recordAudit(w http.ResponseWriter, r *http.Request, title string, payload map[string]any) bool {
	return h.record(w, r, title, audit.StatusSuccess, payload)
}

func (h *Handler) recordFailure(w http.ResponseWriter, r *http.Request, title string, payload map[string]any) bool {
	return h.record(w, r, title, audit.StatusFailure, payload)
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request, title string, status audit.ActivityStatus, payload map[string]any) bool {
	actor, _ := shared.IdentityFromContext(r.Context())
	if _, err := h.trail.Record(r.Context(), actor, audit.Entry{
		Title:   title,
		Type:    audit.ActivityAudit,
		Status:  status,
		Payload: payload,
	}, r); err != nil {
		h.logger.Error("record audit", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return false
	}
	return true
}

func parseFilters(r *http.Request) Filters {
	q := r.URL.Query()
	filters := Filters{ListQuery: shared.ParseListQuery(r)}
	if v, err := strconv.ParseBool(q.Get("blacklisted")); err == nil {
		filters.Blacklisted = &v
	}
	if v, err := strconv.ParseBool(q.Get("suspended")); err == nil {
		filters.Suspended = &v
	}
	return filters
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
