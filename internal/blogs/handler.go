package blogs

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

type postRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=200"`
	Slug     string `json:"slug" validate:"omitempty,min=3,max=200"`
	Body     string `json:"body" validate:"required"`
	CoverURL string `json:"cover_url" validate:"omitempty,url"`
}

// Handler serves the blog management endpoints.
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
		h.logger.Error("list posts", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "posts retrieved", map[string]any{
		"posts":      list,
		"pagination": pagination,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid post id")
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "post does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "post retrieved", p)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.IdentityFromContext(r.Context())

	var req postRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.Create(r.Context(), Post{
		Title:    req.Title,
		Slug:     req.Slug,
		Body:     req.Body,
		CoverURL: req.CoverURL,
		AuthorID: actor.AdminID,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Created post %q", p.Slug)) {
		return
	}
	httpx.Created(w, "post created", p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid post id")
		return
	}
	var req postRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.Update(r.Context(), Post{
		ID:       id,
		Title:    req.Title,
		Slug:     req.Slug,
		Body:     req.Body,
		CoverURL: req.CoverURL,
	})
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "post does not exist")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Updated post %q", p.Slug)) {
		return
	}
	httpx.OK(w, "post updated", p)
}

func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	h.setPublication(w, r, true)
}

func (h *Handler) unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublication(w, r, false)
}

func (h *Handler) setPublication(w http.ResponseWriter, r *http.Request, publish bool) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid post id")
		return
	}
	var p *Post
	if publish {
		p, err = h.service.Publish(r.Context(), id)
	} else {
		p, err = h.service.Unpublish(r.Context(), id)
	}
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "post does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	action, message := "Published", "post published"
	if !publish {
		action, message = "Unpublished", "post unpublished"
	}
	if !h.recordAudit(w, r, fmt.Sprintf("%s post %q", action, p.Slug)) {
		return
	}
	httpx.OK(w, message, p)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid post id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "post does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !h.recordAudit(w, r, fmt.Sprintf("Deleted post %d", id)) {
		return
	}
	httpx.OK(w, "post deleted", nil)
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
