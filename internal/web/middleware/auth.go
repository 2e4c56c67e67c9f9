package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mspdesk/assetdesk/internal/config"
)

// roleHeader is set by the auth frontend after it authenticates the
// user. This service never sees credentials, only the resolved role.
const roleHeader = "X-Auth-Role"

// importRoles are the roles allowed to run imports.
var importRoles = map[string]bool{
	"admin":   true,
	"manager": true,
}

// RequireRole returns middleware that gates import endpoints on the
// forwarded role. With EnforceRole disabled (local development) all
// requests pass through.
func RequireRole(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.EnforceRole {
				next.ServeHTTP(w, r)
				return
			}

			role := strings.ToLower(strings.TrimSpace(r.Header.Get(roleHeader)))
			if role == "" {
				slog.Warn("auth: missing role header",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			if !importRoles[role] {
				slog.Warn("auth: role not permitted to import",
					"path", r.URL.Path,
					"method", r.Method,
					"role", role,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, `{"error":"only admins and managers may import assets"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
