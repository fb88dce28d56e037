package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/meridian-invest/meridian/internal/audit"
	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/shared"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Handler serves login and logout.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	tokens   *TokenManager
	revoked  *RevocationStore
	trail    *audit.Service
	validate *validator.Validate
	now      func() time.Time
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens *TokenManager, revoked *RevocationStore, trail *audit.Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		tokens:   tokens,
		revoked:  revoked,
		trail:    trail,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	admin, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		// Failed sign-ins are auditable activity; the actor reference is
		// unknown so only the attempted email is recorded.
		if _, auditErr := h.trail.Record(r.Context(), shared.Identity{Name: req.Email}, audit.Entry{
			Title:   "Failed admin sign-in",
			Type:    audit.ActivityAccess,
			Status:  audit.StatusFailure,
			Payload: map[string]any{"email": req.Email, "reason": err.Error()},
		}, r); auditErr != nil {
			h.logger.Error("record failed sign-in", slog.Any("error", auditErr))
			httpx.Error(w, http.StatusInternalServerError, auditErr.Error())
			return
		}
		httpx.Error(w, http.StatusUnauthorized, err.Error())
		return
	}

	token, err := h.tokens.Issue(admin, h.now().UTC())
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	actor := shared.Identity{AdminID: admin.ID, Email: admin.Email, Name: admin.Name}
	if _, err := h.trail.Record(r.Context(), actor, audit.Entry{
		Title:  "Admin signed in",
		Type:   audit.ActivityAccess,
		Status: audit.StatusSuccess,
	}, r); err != nil {
		h.logger.Error("record sign-in", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpx.OK(w, "signed in", map[string]any{
		"token": token,
		"admin": admin,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "request admin identity missing")
		return
	}
	claims, err := h.tokens.Parse(bearerToken(r))
	if err != nil {
		httpx.Error(w, http.StatusUnauthorized, ErrInvalidToken.Error())
		return
	}
	if err := h.revoked.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		h.logger.Error("revoke token", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := h.trail.Record(r.Context(), actor, audit.Entry{
		Title:  "Admin signed out",
		Type:   audit.ActivityAccess,
		Status: audit.StatusSuccess,
	}, r); err != nil {
		h.logger.Error("record sign-out", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.OK(w, "signed out", nil)
}
