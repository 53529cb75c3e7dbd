// Package session owns the session cookie. Nothing else reads or writes it.
package session

import (
	"net/http"
	"strings"
	"time"
)

// CookieName is the cookie that carries the session token.
const CookieName = "token"

// DefaultCookieMaxAge matches the token lifetime.
const DefaultCookieMaxAge = 7 * 24 * time.Hour

// CookieManager stores, reads and clears the session token cookie.
type CookieManager struct {
	name   string
	maxAge time.Duration
	secure bool
}

// NewCookieManager returns a manager. maxAge <= 0 uses DefaultCookieMaxAge; maxAge is clamped
// to tokenTTL so the cookie never outlives the token it carries.
func NewCookieManager(maxAge, tokenTTL time.Duration, secure bool) *CookieManager {
	if maxAge <= 0 {
		maxAge = DefaultCookieMaxAge
	}
	if tokenTTL > 0 && maxAge > tokenTTL {
		maxAge = tokenTTL
	}
	return &CookieManager{name: CookieName, maxAge: maxAge, secure: secure}
}

// MaxAge is the lifetime given to stored cookies.
func (m *CookieManager) MaxAge() time.Duration { return m.maxAge }

// Store writes the token cookie.
func (m *CookieManager) Store(w http.ResponseWriter, token string) {
	http.SetCookie(w, m.cookie(strings.TrimSpace(token), int(m.maxAge/time.Second)))
}

// Read returns the trimmed token when present.
func (m *CookieManager) Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	c, err := r.Cookie(m.name)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(c.Value)
	if v == "" {
		return "", false
	}
	return v, true
}

// Clear expires the token cookie.
func (m *CookieManager) Clear(w http.ResponseWriter) {
	c := m.cookie("", -1)
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

func (m *CookieManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
