// Package middleware holds the chi middleware for the browser-facing HTTP API.
package middleware

import (
	"net/http"

	"authify/backend/internal/http/response"
	"authify/backend/internal/security"
	"authify/backend/internal/server/interceptors"
)

// Authenticate reads the session token from the jwt cookie or an Authorization Bearer header
// and, when it verifies, stores the identity in the request context. Requests without a valid
// token pass through anonymously.
func Authenticate(tokens interceptors.TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := security.GetCookie(r, security.SessionCookieName)
			if token == "" {
				token = interceptors.ParseBearer(r.Header.Get("Authorization"))
			}
			if token != "" {
				if claims, err := tokens.Validate(token); err == nil {
					r = r.WithContext(interceptors.WithIdentity(r.Context(), claims.AccountID(), claims.Email))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests that Authenticate left anonymous.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := interceptors.GetAccountID(r.Context()); !ok {
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid session")
			return
		}
		next.ServeHTTP(w, r)
	})
}
