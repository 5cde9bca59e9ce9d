package rbac

import (
	"log/slog"
	"net/http"

	"github.com/yoiioy700/rbac-system/internal/shared"
)

// Middleware wires authorization checks onto HTTP routes.
type Middleware struct {
	Engine *Engine
	Logger *slog.Logger
}

// Require ensures the request's principal holds the given permission. A
// request without a principal, or whose role lacks the permission, is
// rejected with 403 before the handler runs.
func (m Middleware) Require(permission Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := shared.PrincipalFromContext(r.Context())
			if caller == "" {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			allowed, err := m.Engine.CheckPermission(r.Context(), caller, permission)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("require permission", slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if !allowed {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
