package auth

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/shared"
)

// Authenticator resolves bearer tokens into the admin identity attached to
// the request context. Authorization decisions happen later, in the rbac
// gate; this middleware only establishes who is calling.
type Authenticator struct {
	Tokens  *TokenManager
	Revoked *RevocationStore
	Logger  *slog.Logger
}

// Middleware verifies the Authorization header and attaches the identity.
func (a Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpx.Error(w, http.StatusUnauthorized, "request admin identity missing")
			return
		}
		claims, err := a.Tokens.Parse(token)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, ErrInvalidToken.Error())
			return
		}
		if a.Revoked != nil {
			revoked, err := a.Revoked.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				if a.Logger != nil {
					a.Logger.Error("check token revocation", slog.Any("error", err))
				}
				httpx.Error(w, http.StatusInternalServerError, err.Error())
				return
			}
			if revoked {
				httpx.Error(w, http.StatusUnauthorized, "token has been revoked")
				return
			}
		}
		adminID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			httpx.Error(w, http.StatusUnauthorized, ErrInvalidToken.Error())
			return
		}
		ctx := shared.ContextWithIdentity(r.Context(), shared.Identity{
			AdminID: adminID,
			Email:   claims.Email,
			Name:    claims.Name,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
