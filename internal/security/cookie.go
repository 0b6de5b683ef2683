package security

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie that carries the session token for browser clients.
const SessionCookieName = "jwt"

// CookieManager writes and clears the session cookie. The cookie is always HttpOnly and
// SameSite=Strict; Secure can be turned off for plain-HTTP development.
type CookieManager struct {
	Domain string
	Secure bool
}

// NewCookieManager returns a CookieManager for domain (may be empty).
func NewCookieManager(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure}
}

// SetSessionCookie stores token in the session cookie for ttl.
func (c *CookieManager) SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie expires the session cookie.
func (c *CookieManager) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetCookie returns the value of the named cookie or "".
func GetCookie(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
