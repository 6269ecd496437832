package auth

import (
	"net/http"
	"time"
)

// CookieName is the cookie that carries the session token.
const CookieName = "token"

// CookieManager writes and clears the session cookie.
//
// Secure is decided once at startup from the environment and never read from
// the process environment per request.
type CookieManager struct {
	secure bool
	maxAge time.Duration
}

// NewCookieManager returns a CookieManager. secure should be true in
// production (HTTPS only); maxAge should match the token TTL.
func NewCookieManager(secure bool, maxAge time.Duration) *CookieManager {
	return &CookieManager{secure: secure, maxAge: maxAge}
}

// Set attaches the session cookie carrying token to the response.
func (c *CookieManager) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		Expires:  time.Now().Add(c.maxAge),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear overwrites the session cookie with an empty, already-expired value.
func (c *CookieManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}
