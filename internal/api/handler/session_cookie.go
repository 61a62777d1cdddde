package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sickfits/storefront-api/internal/api/middleware"
)

// CookieOptions controls the session cookie written after signup, login and
// reset. MaxAge follows the session lifetime so cookie and token expire
// together.
type CookieOptions struct {
	TTL    time.Duration
	Secure bool
}

func (o CookieOptions) set(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(o.TTL.Seconds()),
		Expires:  time.Now().Add(o.TTL),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (o CookieOptions) clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
