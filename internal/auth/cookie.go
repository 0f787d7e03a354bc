package auth

import (
	"net/http"
	"time"
)

// SessionCookie builds the cookie carrying a freshly minted token. It is
// HTTP-only, secure and usable from a cross-site SPA.
func SessionCookie(kind Kind, token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     kind.CookieName(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// ClearCookie builds a cookie that makes the browser drop the session cookie.
func ClearCookie(kind Kind) *http.Cookie {
	return &http.Cookie{
		Name:     kind.CookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}
