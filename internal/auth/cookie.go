package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie holding the session JWT.
const SessionCookieName = "token"

// CookieOptions controls how the session cookie is written.
//
// The SPA is served from a different origin than the API, so the browser
// only sends the cookie cross-site when it is SameSite=None, and browsers
// only accept SameSite=None together with Secure. For plain-http local
// development set Secure=false, which also falls back to SameSite=Lax.
type CookieOptions struct {
	Secure bool
}

func (o CookieOptions) sameSite() http.SameSite {
	if o.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// SetSessionCookie writes the HttpOnly session cookie.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.sameSite(),
	})
}

// ClearSessionCookie tells the browser to drop the session cookie. The JWT
// itself stays valid until it expires; without the cookie the browser can
// no longer present it.
func ClearSessionCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.sameSite(),
	})
}
