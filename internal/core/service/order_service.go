package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sickfits/storefront-api/internal/core/domain"
	"github.com/sickfits/storefront-api/internal/core/policy"
	"github.com/sickfits/storefront-api/internal/core/ports"
	"github.com/sickfits/storefront-api/internal/pkg/metrics"
)

// CheckoutConfig holds the payment tunables of the checkout pipeline.
type CheckoutConfig struct {
	Currency       string
	PaymentTimeout time.Duration
}

// OrderService turns carts into orders and serves order queries.
type OrderService struct {
	orders  ports.OrderRepository
	carts   ports.CartRepository
	items   ports.ItemRepository
	gateway ports.PaymentGateway
	locker  ports.CheckoutLocker
	cfg     CheckoutConfig
	logger  zerolog.Logger
	now     func() time.Time
}

func NewOrderService(
	orders ports.OrderRepository,
	carts ports.CartRepository,
	items ports.ItemRepository,
	gateway ports.PaymentGateway,
	locker ports.CheckoutLocker,
	cfg CheckoutConfig,
	logger zerolog.Logger,
) *OrderService {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	if cfg.PaymentTimeout <= 0 {
		cfg.PaymentTimeout = 15 * time.Second
	}
	return &OrderService{
		orders:  orders,
		carts:   carts,
		items:   items,
		gateway: gateway,
		locker:  locker,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateOrder runs checkout for the caller: lock, price the cart, capture,
// then persist the order and clear the priced rows in one unit of work.
//
// Once capture has been attempted the request context no longer governs the
// pipeline; a client disconnect must not strand a charge without an order.
func (s *OrderService) CreateOrder(ctx context.Context, caller *domain.Identity, sourceToken string) (*domain.Order, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	if strings.TrimSpace(sourceToken) == "" {
		return nil, domain.ValidationError("payment token is required")
	}

	ctx = context.WithoutCancel(ctx)
	log := s.logger.With().Str("user_id", caller.UserID).Logger()

	release, err := s.locker.Acquire(ctx, caller.UserID)
	if err != nil {
		s.fail(err)
		return nil, fmt.Errorf("create order: %w", err)
	}
	defer func() {
		if err := release(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to release checkout lock")
		}
	}()

	lines, err := loadCart(ctx, s.carts, s.items, caller.UserID)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	// Rows whose item disappeared are cleared with the rest but never charged.
	var (
		snapshot = make([]ports.ConsumedCartItem, 0, len(lines))
		rowIDs   = make([]string, 0, len(lines))
		items    = make([]domain.OrderItem, 0, len(lines))
	)
	for _, l := range lines {
		snapshot = append(snapshot, ports.ConsumedCartItem{ID: l.ID, Quantity: l.Quantity})
		rowIDs = append(rowIDs, l.ID)
		if l.Item != nil {
			items = append(items, domain.SnapshotOrderItem(l))
		}
	}
	if len(items) == 0 {
		s.fail(domain.ErrEmptyCart)
		return nil, domain.ErrEmptyCart
	}

	amount := domain.CartTotal(lines)
	capture, err := s.capture(ctx, ports.CaptureRequest{
		Amount:         amount,
		Currency:       s.cfg.Currency,
		SourceToken:    sourceToken,
		IdempotencyKey: checkoutKey(caller.UserID, sourceToken, lines),
		Description:    "Order for user " + caller.UserID,
	})
	if err != nil {
		s.fail(err)
		log.Warn().Err(err).Int64("amount", amount).Msg("payment capture failed")
		return nil, fmt.Errorf("create order: %w", err)
	}

	currency := capture.Currency
	if currency == "" {
		currency = s.cfg.Currency
	}
	order, err := s.orders.CreateFromCart(ctx, &domain.Order{
		UserID:    caller.UserID,
		Items:     items,
		Total:     capture.Amount,
		Currency:  currency,
		Charge:    capture.ChargeID,
		CreatedAt: s.now().UTC(),
	}, snapshot)
	if err != nil {
		pce := &domain.PostChargeError{ChargeID: capture.ChargeID, Amount: capture.Amount, Err: err}
		s.fail(pce)
		log.Error().
			Err(err).
			Str("event", "checkout.post_charge_failure").
			Str("charge_id", capture.ChargeID).
			Int64("amount", capture.Amount).
			Strs("cart_item_ids", rowIDs).
			Msg("charge captured but order not persisted; reconcile manually")
		return nil, pce
	}

	metrics.OrdersCreatedTotal.Inc()
	log.Info().
		Str("order_id", order.ID).
		Str("charge_id", order.Charge).
		Int64("total", order.Total).
		Int("items", len(order.Items)).
		Msg("order created")
	return order, nil
}

// capture bounds the gateway call with its own deadline. Anything that is not
// a clean decline is reported as uncertain.
func (s *OrderService) capture(ctx context.Context, req ports.CaptureRequest) (*domain.Capture, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.PaymentTimeout)
	defer cancel()

	start := time.Now()
	c, err := s.gateway.Capture(ctx, req)
	switch {
	case err == nil && c == nil:
		err = fmt.Errorf("%w: gateway returned no capture", domain.ErrPaymentUncertain)
	case err != nil && !errors.Is(err, domain.ErrPaymentDeclined) && !errors.Is(err, domain.ErrPaymentUncertain):
		err = fmt.Errorf("%w: %v", domain.ErrPaymentUncertain, err)
	}

	outcome := "captured"
	switch {
	case errors.Is(err, domain.ErrPaymentDeclined):
		outcome = "declined"
	case err != nil:
		outcome = "uncertain"
	}
	metrics.PaymentCaptureDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *OrderService) fail(err error) {
	reason := "error"
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		reason = "empty_cart"
	case errors.Is(err, domain.ErrCheckoutInProgress):
		reason = "in_progress"
	case errors.Is(err, domain.ErrPaymentDeclined):
		reason = "declined"
	case errors.Is(err, domain.ErrPaymentUncertain):
		reason = "uncertain"
	case errors.Is(err, domain.ErrPostChargeFailure):
		reason = "post_charge"
	}
	metrics.CheckoutFailuresTotal.WithLabelValues(reason).Inc()
}

// checkoutKey derives the gateway idempotency key from the user, the payment
// source and the exact cart contents. Resubmitting the same cart with the same
// source cannot charge twice; switching cards after a decline gets a fresh key.
func checkoutKey(userID, sourceToken string, lines []domain.CartLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.ID+":"+strconv.Itoa(l.Quantity))
	}
	sort.Strings(parts)

	sum := sha256.Sum256([]byte(userID + "|" + sourceToken + "|" + strings.Join(parts, ",")))
	return "checkout-" + hex.EncodeToString(sum[:16])
}

func (s *OrderService) Order(ctx context.Context, caller *domain.Identity, id string) (*domain.Order, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.OrderRead(caller, order).Err(); err != nil {
		logDenied(s.logger, caller, "read_order", id, err)
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Orders(ctx context.Context, caller *domain.Identity, userID string) ([]*domain.Order, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	if err := policy.OrdersListing(caller, userID).Err(); err != nil {
		logDenied(s.logger, caller, "list_orders", userID, err)
		return nil, err
	}
	if userID == "" {
		userID = caller.UserID
	}
	return s.orders.ListByUser(ctx, userID)
}
