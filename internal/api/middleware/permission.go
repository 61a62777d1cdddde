package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sickfits/storefront-api/internal/core/domain"
	"github.com/sickfits/storefront-api/internal/core/policy"
	"github.com/sickfits/storefront-api/internal/pkg/metrics"
)

// RequirePermission admits callers holding at least one of perms.
func RequirePermission(log zerolog.Logger, perms ...domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := domain.IdentityFrom(c.Request().Context())
			if err := policy.Require(caller, perms...); err != nil {
				if caller.Authenticated() {
					metrics.SecurityEventsTotal.WithLabelValues("access_denied").Inc()
					log.Warn().
						Str("event", "access.denied").
						Str("user_id", caller.UserID).
						Str("method", c.Request().Method).
						Str("path", c.Path()).
						Strs("required", domain.PermissionStrings(perms)).
						Msg("access denied")
				}
				return err
			}
			return next(c)
		}
	}
}
