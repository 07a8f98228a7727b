package auth

import (
	"time"

	"github.com/goliatone/go-router"
)

// SessionTokenFromRequest pulls the opaque session token out of the request
// cookie. Empty string means no session was presented.
func SessionTokenFromRequest(c router.Context, cfg Config) string {
	if cfg == nil {
		cfg = defConfig{}
	}
	return c.Cookies(cfg.GetSessionCookieName())
}

func setSessionCookie(c router.Context, cfg Config, token string) {
	duration := 24 * time.Hour
	if cfg.GetSessionDuration() > 0 {
		duration = time.Duration(cfg.GetSessionDuration()) * time.Hour
	}

	c.Cookie(&router.Cookie{
		Name:     cfg.GetSessionCookieName(),
		Value:    token,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func clearSessionCookie(c router.Context, cfg Config) {
	c.Cookie(&router.Cookie{
		Name:     cfg.GetSessionCookieName(),
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}
