package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sickfits/storefront-api/internal/core/domain"
	"github.com/sickfits/storefront-api/internal/core/ports"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "token"

// Identity resolves the session cookie, when present, into a caller identity
// and attaches it to the request context. Requests without a cookie continue
// anonymously; a forged or expired cookie is rejected with 401.
func Identity(resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			req := c.Request()
			id, err := resolver.Resolve(req.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
				}
				return err
			}

			c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), id)))
			return next(c)
		}
	}
}

// RequireAuth rejects requests without a hydrated caller.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !domain.IdentityFrom(c.Request().Context()).Authenticated() {
				return domain.ErrUnauthorized
			}
			return next(c)
		}
	}
}
