// Package rbac guards routes by the role of the signed in account.
package rbac

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/istmoglobal/storefront/internal/auth"
	"github.com/istmoglobal/storefront/internal/platform/httpx"
)

// Middleware wires role authorization helpers for HTTP handlers.
type Middleware struct {
	Logger *slog.Logger
}

// RequireRole ensures the current identity holds one of roles. Anonymous
// requests get 401, signed in users without a matching role get 403.
func (m Middleware) RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	allowed := normalizeRoles(roles)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			if len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := allowed[id.Role]; ok {
				next.ServeHTTP(w, r)
				return
			}
			if m.Logger != nil {
				m.Logger.Warn("rbac denied",
					slog.String("user", id.UserID),
					slog.String("role", string(id.Role)),
					slog.String("path", r.URL.Path))
			}
			httpx.RespondError(w, httpx.ErrForbidden)
		})
	}
}

// RequireAdmin is RequireRole(auth.RoleAdmin).
func (m Middleware) RequireAdmin() func(http.Handler) http.Handler {
	return m.RequireRole(auth.RoleAdmin)
}

func normalizeRoles(roles []auth.Role) map[auth.Role]struct{} {
	unique := make(map[auth.Role]struct{}, len(roles))
	for _, role := range roles {
		role = auth.Role(strings.TrimSpace(strings.ToLower(string(role))))
		if !role.Valid() {
			continue
		}
		unique[role] = struct{}{}
	}
	return unique
}
