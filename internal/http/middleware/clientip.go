package middleware

import (
	"net"
	"net/http"

	"authify/backend/internal/audit"
)

// ClientIP stores the caller address for the audit logger. Run it after chi's RealIP so
// proxy headers are already applied to RemoteAddr.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(audit.WithClientIP(r.Context(), remoteHost(r))))
	})
}

func remoteHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
