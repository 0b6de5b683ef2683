package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"authify/backend/internal/http/response"
	"authify/backend/internal/ratelimit"
	"authify/backend/internal/server/interceptors"
)

// KeyFunc derives the rate limit key for a request. An empty key falls back to the client IP.
type KeyFunc func(r *http.Request) string

// EmailQueryKey keys by the email query parameter (POST /reset-otp?email=).
func EmailQueryKey(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
}

// maxKeyPeekBytes bounds how much of a request body BodyEmailKey reads.
const maxKeyPeekBytes = 1 << 16

// BodyEmailKey keys by the email field of a JSON body (POST /reset-password). The body is
// restored for the handler.
func BodyEmailKey(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxKeyPeekBytes))
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
	if err != nil {
		return ""
	}
	var v struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &v) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(v.Email))
}

// IdentityKey keys by the signed-in email.
func IdentityKey(r *http.Request) string {
	email, _ := interceptors.GetEmail(r.Context())
	return email
}

// RateLimit bounds requests per key under scope. Limiter errors fail open.
func RateLimit(limiter ratelimit.Limiter, scope string, key KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := ""
			if key != nil {
				k = key(r)
			}
			if k == "" {
				k = remoteHost(r)
			}
			d, err := limiter.Allow(r.Context(), scope+":"+k)
			if err != nil {
				slog.WarnContext(r.Context(), "rate limiter backend unavailable, allowing request", "scope", scope, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !d.Allowed {
				secs := int(d.RetryAfter.Seconds())
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				response.Error(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
