package web

import (
	"net/http"

	"github.com/mspdesk/assetdesk/internal/importer"
)

// requestMeta collects the request identity recorded in audit rows.
// The auth frontend forwards the acting user in X-Auth-User; RemoteAddr
// is already the real client IP courtesy of the TrustedRealIP middleware.
func requestMeta(r *http.Request) importer.RequestMeta {
	user := r.Header.Get("X-Auth-User")
	if user == "" {
		user = "unknown"
	}

	return importer.RequestMeta{
		User:      user,
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}
