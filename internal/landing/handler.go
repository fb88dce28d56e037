// Package landing serves the unauthenticated read-only endpoints consumed by
// the public site. No identity, no audit trail, aggressively rate limited.
package landing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/meridian-invest/meridian/internal/blogs"
	"github.com/meridian-invest/meridian/internal/faqs"
	"github.com/meridian-invest/meridian/internal/notifications"
	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/rates"
	"github.com/meridian-invest/meridian/internal/referrals"
	"github.com/meridian-invest/meridian/internal/settlements"
	"github.com/meridian-invest/meridian/internal/shared"
)

// Handler composes the read paths of the resource modules.
type Handler struct {
	logger        *slog.Logger
	faqs          *faqs.Service
	blogs         *blogs.Service
	rates         *rates.Service
	notifications *notifications.Service
	settlements   *settlements.Service
	referrals     *referrals.Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, faqSvc *faqs.Service, blogSvc *blogs.Service, rateSvc *rates.Service, notifSvc *notifications.Service, settleSvc *settlements.Service, refSvc *referrals.Service) *Handler {
	return &Handler{
		logger:        logger,
		faqs:          faqSvc,
		blogs:         blogSvc,
		rates:         rateSvc,
		notifications: notifSvc,
		settlements:   settleSvc,
		referrals:     refSvc,
	}
}

// MountRoutes registers the public endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(gr chi.Router) {
		gr.Use(httprate.Limit(60, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		gr.Get("/landing/faqs", h.listFAQs)
		gr.Get("/landing/blogs", h.listBlogs)
		gr.Get("/landing/blogs/{slug}", h.getBlog)
		gr.Get("/landing/rates/{base}/{quote}", h.currentRate)
		gr.Get("/landing/notifications", h.listAnnouncements)
		gr.Get("/landing/settlement-accounts", h.listSettlementAccounts)
		gr.Get("/landing/referrals/{code}", h.lookupReferral)
	})
}

func (h *Handler) listFAQs(w http.ResponseWriter, r *http.Request) {
	list, err := h.faqs.ListPublished(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.logger.Error("landing faqs", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "faqs retrieved", list)
}

func (h *Handler) listBlogs(w http.ResponseWriter, r *http.Request) {
	filters := blogs.Filters{ListQuery: shared.ParseListQuery(r)}
	list, pagination, err := h.blogs.ListPublished(r.Context(), filters)
	if err != nil {
		h.logger.Error("landing blogs", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "posts retrieved", map[string]any{
		"posts":      list,
		"pagination": pagination,
	})
}

func (h *Handler) getBlog(w http.ResponseWriter, r *http.Request) {
	post, err := h.blogs.GetPublished(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "post does not exist")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "post retrieved", post)
}

func (h *Handler) currentRate(w http.ResponseWriter, r *http.Request) {
	base, quote := chi.URLParam(r, "base"), chi.URLParam(r, "quote")
	rate, err := singleflightRate(r.Context(), base+"/"+quote, func(ctx context.Context) (interface{}, error) {
		return h.rates.Current(ctx, base, quote)
	})
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "no rate published for this pair")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "rate retrieved", rate)
}

func (h *Handler) listAnnouncements(w http.ResponseWriter, r *http.Request) {
	list, err := h.notifications.ListBroadcast(r.Context())
	if err != nil {
		h.logger.Error("landing notifications", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "announcements retrieved", list)
}

func (h *Handler) listSettlementAccounts(w http.ResponseWriter, r *http.Request) {
	list, err := h.settlements.ListActive(r.Context(), r.URL.Query().Get("currency"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "settlement accounts retrieved", list)
}

func (h *Handler) lookupReferral(w http.ResponseWriter, r *http.Request) {
	owner, err := h.referrals.Lookup(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "referral code does not exist")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "referral code resolved", owner)
}
