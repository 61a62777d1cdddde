package ports

import (
	"context"

	"github.com/sickfits/storefront-api/internal/core/domain"
)

// CaptureRequest asks the payment collaborator to capture Amount.
type CaptureRequest struct {
	Amount         int64
	Currency       string
	SourceToken    string
	IdempotencyKey string
	Description    string
}

// PaymentGateway captures funds. Failures wrap domain.ErrPaymentDeclined when
// nothing was charged, and domain.ErrPaymentUncertain when the outcome is
// unknown (timeouts, transport errors, gateway 5xx).
type PaymentGateway interface {
	Capture(ctx context.Context, req CaptureRequest) (*domain.Capture, error)
}

// CheckoutLocker serialises checkouts per user.
type CheckoutLocker interface {
	// Acquire returns domain.ErrCheckoutInProgress if the user already holds the lock.
	Acquire(ctx context.Context, userID string) (release func(context.Context) error, err error)
}
