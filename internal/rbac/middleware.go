package rbac

import (
	"log/slog"
	"net/http"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/shared"
)

// Middleware wires the authorization gate for HTTP handlers.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// Require gates a route on one permission alias. Requests without an
// attached admin identity, and requests failing any of the four gate checks,
// terminate with 401 before the handler runs.
func (m Middleware) Require(alias string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := shared.IdentityFromContext(r.Context())
			if !ok {
				httpx.Error(w, http.StatusUnauthorized, "request admin identity missing")
				return
			}
			if err := m.Service.Authorize(r.Context(), identity.AdminID, alias); err != nil {
				if IsDenial(err) {
					httpx.Error(w, http.StatusUnauthorized, err.Error())
					return
				}
				if m.Logger != nil {
					m.Logger.Error("authorize request", slog.String("alias", alias), slog.Any("error", err))
				}
				httpx.Error(w, http.StatusInternalServerError, err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
