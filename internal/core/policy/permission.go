// Package policy holds the pure access decisions: permission checks and the
// ownership-or-permission rules for items, cart rows and orders.
package policy

import (
	"slices"

	"github.com/sickfits/storefront-api/internal/core/domain"
)

// Decision is the outcome of an access check. Callers decide whether a denial
// becomes an error.
type Decision struct {
	Allowed  bool
	Reason   string
	Held     []domain.Permission
	Required []domain.Permission
}

// Allow returns an allowing decision.
func Allow(reason string) Decision {
	return Decision{Allowed: true, Reason: reason}
}

// Err converts a denial into *domain.ForbiddenError and an allow into nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &domain.ForbiddenError{Held: d.Held, Required: d.Required}
}

// HasPermission allows iff held and required share at least one label.
// An empty held set never matches.
func HasPermission(held []domain.Permission, required ...domain.Permission) Decision {
	for _, r := range required {
		if slices.Contains(held, r) {
			return Decision{Allowed: true, Reason: "permission " + string(r), Held: held, Required: required}
		}
	}
	return Decision{Allowed: false, Reason: "missing permission", Held: held, Required: required}
}

// Require is HasPermission for a caller: unauthenticated callers get
// domain.ErrUnauthorized, denials get *domain.ForbiddenError.
func Require(caller *domain.Identity, required ...domain.Permission) error {
	if !caller.Authenticated() {
		return domain.ErrUnauthorized
	}
	return HasPermission(caller.Permissions(), required...).Err()
}
