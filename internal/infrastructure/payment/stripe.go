// Package payment adapts the Stripe charges API to ports.PaymentGateway.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/charge"

	"github.com/sickfits/storefront-api/internal/core/domain"
	"github.com/sickfits/storefront-api/internal/core/ports"
)

// StripeConfig configures the Stripe client. URL overrides the API base and
// is only set in tests.
type StripeConfig struct {
	SecretKey string
	URL       string
}

// StripeGateway captures payments as Stripe charges.
type StripeGateway struct {
	charges *charge.Client
	log     zerolog.Logger
}

func NewStripeGateway(cfg StripeConfig, log zerolog.Logger) *StripeGateway {
	backendCfg := &stripe.BackendConfig{
		// retries are driven by the idempotency key at checkout level
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.URL != "" {
		backendCfg.URL = stripe.String(cfg.URL)
	}
	return &StripeGateway{
		charges: &charge.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
			Key: cfg.SecretKey,
		},
		log: log,
	}
}

// Capture creates a charge. Errors wrap domain.ErrPaymentDeclined when Stripe
// definitively refused the charge and domain.ErrPaymentUncertain otherwise.
func (g *StripeGateway) Capture(ctx context.Context, req ports.CaptureRequest) (*domain.Capture, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(req.Amount),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
	}
	if err := params.SetSource(req.SourceToken); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentDeclined, err)
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	ch, err := g.charges.New(params)
	if err != nil {
		return nil, g.classify(err)
	}
	if ch.Status == stripe.ChargeStatusFailed {
		return nil, fmt.Errorf("%w: charge %s failed: %s", domain.ErrPaymentDeclined, ch.ID, ch.FailureMessage)
	}

	g.log.Debug().Str("charge_id", ch.ID).Int64("amount", ch.Amount).Msg("charge captured")
	return &domain.Capture{ChargeID: ch.ID, Amount: ch.Amount, Currency: string(ch.Currency)}, nil
}

func (g *StripeGateway) classify(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %v", domain.ErrPaymentUncertain, err)
	}

	switch {
	case se.Type == stripe.ErrorTypeCard:
		return fmt.Errorf("%w: %s", domain.ErrPaymentDeclined, se.Msg)
	case se.Type == stripe.ErrorTypeInvalidRequest &&
		(se.HTTPStatusCode == http.StatusBadRequest || se.HTTPStatusCode == http.StatusPaymentRequired || se.HTTPStatusCode == http.StatusNotFound):
		return fmt.Errorf("%w: %s", domain.ErrPaymentDeclined, se.Msg)
	case se.Type == stripe.ErrorTypeIdempotency:
		// The key already belongs to a request with other parameters; whatever
		// that request did, this one charged nothing.
		g.log.Error().
			Str("type", string(se.Type)).
			Int("status", se.HTTPStatusCode).
			Str("request_id", se.RequestID).
			Msg("stripe rejected a reused idempotency key")
		return fmt.Errorf("%w: idempotency key conflict: %s", domain.ErrPaymentUncertain, se.Msg)
	}

	g.log.Warn().
		Str("type", string(se.Type)).
		Int("status", se.HTTPStatusCode).
		Str("request_id", se.RequestID).
		Msg("stripe returned an indeterminate error")
	return fmt.Errorf("%w: %s", domain.ErrPaymentUncertain, se.Msg)
}
