package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const CookieName = "aitp_token"

// Manager owns the session cookie. No other component reads or writes it
// directly.
type Manager struct {
	ttl    time.Duration
	secure bool
}

func NewManager(ttl time.Duration, secure bool) *Manager {
	return &Manager{ttl: ttl, secure: secure}
}

// Attach sets the session cookie carrying the signed token.
func (m *Manager) Attach(c echo.Context, tokenString string) {
	c.SetCookie(m.cookie(tokenString, int(m.ttl.Seconds())))
}

// Clear overwrites the cookie with an empty value and Max-Age=0 so the
// browser drops it immediately. net/http writes Max-Age=0 for a negative
// MaxAge and omits the attribute for zero.
func (m *Manager) Clear(c echo.Context) {
	c.SetCookie(m.cookie("", -1))
}

// Token returns the raw token from the request cookie, if present.
func (m *Manager) Token(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
