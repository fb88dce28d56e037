package banks

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

// Handler serves the payout bank account endpoints.
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
		h.logger.Error("list bank accounts", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "bank accounts retrieved", map[string]any{
		"accounts":   list,
		"pagination": pagination,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}
	account, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "bank account does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "bank account retrieved", account)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	account, err := h.service.Create(r.Context(), Account{
		UserID:        req.UserID,
		BankName:      req.BankName,
		BankCode:      req.BankCode,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
		Currency:      req.Currency,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Registered bank account %d for user %d", account.ID, account.UserID)) {
		return
	}
	httpx.Created(w, "bank account created", account)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}
	var req accountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	account, err := h.service.Update(r.Context(), Account{
		ID:            id,
		BankName:      req.BankName,
		BankCode:      req.BankCode,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
		Currency:      req.Currency,
	})
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "bank account does not exist")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Updated bank account %d", account.ID)) {
		return
	}
	httpx.OK(w, "bank account updated", account)
}

func (h *Handler) setVerified(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}
	var req verifyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	account, err := h.service.SetVerified(r.Context(), id, *req.Verified)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "bank account does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	action := "Unverified"
	if *req.Verified {
		action = "Verified"
	}
	if !h.recordAudit(w, r, fmt.Sprintf("%s bank account %d", action, id)) {
		return
	}
	httpx.OK(w, "bank account verification updated", account)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "bank account does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Deleted bank account %d", id)) {
		return
	}
	httpx.OK(w, "bank account deleted", nil)
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

func parseFilters(r *http.Request) Filters {
	q := r.URL.Query()
	filters := Filters{ListQuery: shared.ParseListQuery(r)}
	if v, err := strconv.ParseInt(q.Get("user_id"), 10, 64); err == nil && v > 0 {
		filters.UserID = &v
	}
	if v, err := strconv.ParseBool(q.Get("verified")); err == nil {
		filters.Verified = &v
	}
	return filters
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
