package service

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/sickfits/storefront-api/internal/core/domain"
	"github.com/sickfits/storefront-api/internal/pkg/metrics"
)

// logDenied records a permission or ownership denial. Unauthenticated
// callers are not logged; that is the normal anonymous path.
func logDenied(logger zerolog.Logger, caller *domain.Identity, action, resourceID string, err error) {
	var fe *domain.ForbiddenError
	if !errors.As(err, &fe) {
		return
	}
	metrics.SecurityEventsTotal.WithLabelValues("access_denied").Inc()
	logger.Warn().
		Str("event", "access.denied").
		Str("action", action).
		Str("user_id", caller.UserID).
		Str("resource_id", resourceID).
		Strs("held", domain.PermissionStrings(fe.Held)).
		Strs("required", domain.PermissionStrings(fe.Required)).
		Msg("access denied")
}
