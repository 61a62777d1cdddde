package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sickfits/storefront-api/internal/core/domain"
)

// callerFrom returns the identity attached by the Identity middleware, or nil
// for an anonymous request. Services decide whether nil is fatal.
func callerFrom(c echo.Context) *domain.Identity {
	return domain.IdentityFrom(c.Request().Context())
}

// bindAndValidate decodes the request into req and runs its validate tags.
// Failures surface as domain validation errors so the central handler maps
// them to 400.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.ValidationError("invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return domain.ValidationError("%s", err.Error())
	}
	return nil
}
