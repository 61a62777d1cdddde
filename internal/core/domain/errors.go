package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthorized          = errors.New("authentication required")
	ErrForbidden             = errors.New("access forbidden")
	ErrNotFound              = errors.New("not found")
	ErrValidation            = errors.New("validation failed")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUserExists            = errors.New("user already exists")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrCheckoutInProgress    = errors.New("checkout already in progress")
	ErrPaymentDeclined       = errors.New("payment declined")
	ErrPaymentUncertain      = errors.New("payment outcome unknown")
	ErrPostChargeFailure     = errors.New("order not persisted after charge")
)

var (
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrItemNotFound     = fmt.Errorf("item %w", ErrNotFound)
	ErrCartItemNotFound = fmt.Errorf("cart item %w", ErrNotFound)
	ErrOrderNotFound    = fmt.Errorf("order %w", ErrNotFound)
)

// ValidationError wraps ErrValidation with a user-facing reason.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ForbiddenError is returned when a permission check denies access. The sets
// are for logs only; the HTTP layer never echoes them.
type ForbiddenError struct {
	Held     []Permission
	Required []Permission
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("access forbidden: have [%s], need one of [%s]",
		strings.Join(PermissionStrings(e.Held), ","),
		strings.Join(PermissionStrings(e.Required), ","))
}

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// PostChargeError means money was captured but the order was not (fully)
// persisted. ChargeID is what an operator needs to reconcile.
type PostChargeError struct {
	ChargeID string
	Amount   int64
	Err      error
}

func (e *PostChargeError) Error() string {
	return fmt.Sprintf("charge %s (%d) captured but order not persisted: %v", e.ChargeID, e.Amount, e.Err)
}

func (e *PostChargeError) Unwrap() []error { return []error{ErrPostChargeFailure, e.Err} }
