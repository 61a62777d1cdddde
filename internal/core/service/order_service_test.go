package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sickfits/storefront-api/internal/core/domain"
	"github.com/sickfits/storefront-api/internal/core/ports"
)

type checkoutFixture struct {
	svc     *OrderService
	carts   *stubCartRepo
	items   *stubItemRepo
	orders  *stubOrderRepo
	gateway *stubGateway
	jane    *domain.Identity
}

func newCheckoutFixture() *checkoutFixture {
	carts, items := newStubCartRepo(), newStubItemRepo()
	orders := newStubOrderRepo(carts)
	gateway := &stubGateway{}
	items.put(&domain.Item{ID: "a", Title: "A", Description: "first", Price: 500})
	items.put(&domain.Item{ID: "b", Title: "B", Description: "second", Price: 300})

	svc := NewOrderService(orders, carts, items, gateway, newMemLocker(),
		CheckoutConfig{Currency: "usd", PaymentTimeout: time.Second}, zerolog.Nop())
	return &checkoutFixture{
		svc: svc, carts: carts, items: items, orders: orders, gateway: gateway,
		jane: identityOf(userWith("jane", domain.PermissionUser)),
	}
}

func (f *checkoutFixture) fillCart() {
	f.carts.put(&domain.CartItem{ID: "c1", UserID: "jane", ItemID: "a", Quantity: 2})
	f.carts.put(&domain.CartItem{ID: "c2", UserID: "jane", ItemID: "b", Quantity: 1})
}

func TestOrderService_CreateOrder_Success(t *testing.T) {
	f := newCheckoutFixture()
	f.fillCart()

	order, err := f.svc.CreateOrder(context.Background(), f.jane, "tok_visa")
	require.NoError(t, err)

	require.Equal(t, 1, f.gateway.callCount())
	req := f.gateway.calls[0]
	assert.Equal(t, int64(1300), req.Amount)
	assert.Equal(t, "usd", req.Currency)
	assert.Equal(t, "tok_visa", req.SourceToken)
	assert.NotEmpty(t, req.IdempotencyKey)
	assert.Equal(t, "Order for user jane", req.Description)
	assert.NotContains(t, req.Description, "@")

	assert.Equal(t, "ch_1", order.Charge)
	assert.Equal(t, int64(1300), order.Total)
	assert.Equal(t, "jane", order.UserID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, domain.OrderItem{ItemID: "a", Title: "A", Description: "first", Price: 500, Quantity: 2}, order.Items[0])
	assert.Equal(t, 0, f.carts.len(), "cart rows must be consumed")
}

func TestOrderService_CreateOrder_TotalIsCapturedAmount(t *testing.T) {
	f := newCheckoutFixture()
	f.fillCart()
	f.gateway.captureF = func(_ context.Context, req ports.CaptureRequest) (*domain.Capture, error) {
		return &domain.Capture{ChargeID: "ch_adj", Amount: req.Amount - 1, Currency: "usd"}, nil
	}

	order, err := f.svc.CreateOrder(context.Background(), f.jane, "tok_visa")
	require.NoError(t, err)
	assert.Equal(t, int64(1299), order.Total)
}

func TestOrderService_CreateOrder_SnapshotsAreFrozen(t *testing.T) {
	f := newCheckoutFixture()
	f.fillCart()

	order, err := f.svc.CreateOrder(context.Background(), f.jane, "tok_visa")
	require.NoError(t, err)

	_, err = f.items.Update(context.Background(), "a", domain.ItemPatch{Price: ptr(int64(9999))})
	require.NoError(t, err)

	stored, err := f.orders.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), stored.Items[0].Price)
}

func TestOrderService_CreateOrder_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.svc.CreateOrder(context.Background(), f.jane, "tok_visa")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Equal(t, 0, f.gateway.callCount(), "no capture for an empty cart")
}

func TestOrderService_CreateOrder_DeletedItemsAreNotCharged(t *testing.T) {
	f := newCheckoutFixture()
	f.fillCart()
	require.NoError(t, f.items.Delete(context.Background(), "b"))

	order, err := f.svc.CreateOrder(context.Background(), f.jane, "tok_visa")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), f.gateway.calls[0].Amount)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 0, f.carts.len(), "dangling row is cleared with the snapshot")
}

func TestOrderService_CreateOrder_OnlyDeletedItems(t *testing.T) {
	f := newCheckoutFixture()
	f.carts.put(&domain.CartItem{ID: "c1", UserID: "jane", ItemID: "gone", Quantity: 1})

	_, err := f.svc.CreateOrder(context.Background(), f.jane, "tok_visa")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Equal(t, 0, f.gateway.callCount())
}

func TestOrderService_CreateOrder_Declined(t *testing.T) {
	f := newCheckoutFixture()
	f.fillCart()
	f.gateway.captureF = func(context.Context, ports.CaptureRequest) (*domain.Capture, error) {
		return nil, errors.Join(domain.ErrPaymentDeclined, errors.New("card_declined"))
	}

	_, err := f.svc.CreateOrder(context.Background(), f.jane, "tok_chargeDeclined")
	assert.ErrorIs(t, err, domain.ErrPaymentDeclined)
	assert.Equal(t, 0, f.orders.count())
	assert.Equal(t, 2, f.carts.len(), "cart untouched after a decline")
}

func TestOrderService_CreateOrder_RetryWithAnotherCardAfterDecline(t *testing.T) {
	f := newCheckoutFixture()
	f.fillCart()
	f.gateway.captureF = func(_ context.Context, req ports.CaptureRequest) (*domain.Capture, error) {
		if req.SourceToken == "tok_chargeDeclined" {
			return nil, domain.ErrPaymentDeclined
		}
		return &domain.Capture{ChargeID: "ch_2", Amount: req.Amount, Currency: req.Currency}, nil
	}

	_, err := f.svc.CreateOrder(context.Background(), f.jane, "tok_chargeDeclined")
	require.ErrorIs(t, err, domain.ErrPaymentDeclined)

	order, err := f.svc.CreateOrder(context.Background(), f.jane, "tok_visa")
	require.NoError(t, err)
	assert.Equal(t, "ch_2", order.Charge)

	require.Equal(t, 2, f.gateway.callCount())
	assert.NotEqual(t, f.gateway.calls[0].IdempotencyKey, f.gateway.calls[1].IdempotencyKey)
}

func TestOrderService_CreateOrder_KeepsUnitsAddedDuringCapture(t *testing.T) {
	f := newCheckoutFixture()
	f.fillCart()
	f.gateway.captureF = func(ctx context.Context, req ports.CaptureRequest) (*domain.Capture, error) {
		row, err := f.carts.Increment(ctx, "jane", "a")
		if err != nil {
			return nil, err
		}
		if row.ID != "c1" || row.Quantity != 3 {
			return nil, errors.New("increment did not merge into the priced row")
		}
		return &domain.Capture{ChargeID: "ch_1", Amount: req.Amount, Currency: req.Currency}, nil
	}

	order, err := f.svc.CreateOrder(context.Background(), f.jane, "tok_visa")
	require.NoError(t, err)

	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, int64(1300), order.Total)
	assert.Equal(t, 1, f.carts.len(), "the unit added mid-checkout stays in the cart")
	assert.Equal(t, 1, f.carts.quantity("c1"))
}

func TestOrderService_CreateOrder_Uncertain(t *testing.T) {
	cases := map[string]func(ctx context.Context, _ ports.CaptureRequest) (*domain.Capture, error){
		"explicit": func(context.Context, ports.CaptureRequest) (*domain.Capture, error) {
			return nil, domain.ErrPaymentUncertain
		},
		"unclassified": func(context.Context, ports.CaptureRequest) (*domain.Capture, error) {
			return nil, errors.New("connection reset")
		},
		"timeout": func(ctx context.Context, _ ports.CaptureRequest) (*domain.Capture, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
		"nil capture": func(context.Context, ports.CaptureRequest) (*domain.Capture, error) {
			return nil, nil
		},
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			f := newCheckoutFixture()
			f.svc.cfg.PaymentTimeout = 20 * time.Millisecond
			f.fillCart()
			f.gateway.captureF = fn

			_, err := f.svc.CreateOrder(context.Background(), f.jane, "tok_visa")
			assert.ErrorIs(t, err, domain.ErrPaymentUncertain)
			assert.NotErrorIs(t, err, domain.ErrPaymentDeclined)
			assert.Equal(t, 0, f.orders.count())
		})
	}
}

func TestOrderService_CreateOrder_PostChargeFailure(t *testing.T) {
	f := newCheckoutFixture()
	f.fillCart()
	f.orders.failErr = errors.New("write conflict")

	_, err := f.svc.CreateOrder(context.Background(), f.jane, "tok_visa")
	require.ErrorIs(t, err, domain.ErrPostChargeFailure)

	var pce *domain.PostChargeError
	require.ErrorAs(t, err, &pce)
	assert.Equal(t, "ch_1", pce.ChargeID)
	assert.Equal(t, int64(1300), pce.Amount)
	assert.Equal(t, 1, f.gateway.callCount())
}

func TestOrderService_CreateOrder_SurvivesCallerCancel(t *testing.T) {
	f := newCheckoutFixture()
	f.fillCart()

	ctx, cancel := context.WithCancel(context.Background())
	f.gateway.captureF = func(c context.Context, req ports.CaptureRequest) (*domain.Capture, error) {
		cancel()
		if c.Err() != nil {
			return nil, c.Err()
		}
		return &domain.Capture{ChargeID: "ch_1", Amount: req.Amount, Currency: req.Currency}, nil
	}

	order, err := f.svc.CreateOrder(ctx, f.jane, "tok_visa")
	require.NoError(t, err)
	assert.Equal(t, "ch_1", order.Charge)
}

func TestOrderService_CreateOrder_ConcurrentSameUser(t *testing.T) {
	f := newCheckoutFixture()
	f.fillCart()

	entered := make(chan struct{})
	proceed := make(chan struct{})
	f.gateway.captureF = func(_ context.Context, req ports.CaptureRequest) (*domain.Capture, error) {
		close(entered)
		<-proceed
		return &domain.Capture{ChargeID: "ch_1", Amount: req.Amount, Currency: req.Currency}, nil
	}

	var (
		wg    sync.WaitGroup
		first error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, first = f.svc.CreateOrder(context.Background(), f.jane, "tok_visa")
	}()

	<-entered
	_, second := f.svc.CreateOrder(context.Background(), f.jane, "tok_visa")
	close(proceed)
	wg.Wait()

	require.NoError(t, first)
	assert.ErrorIs(t, second, domain.ErrCheckoutInProgress)
	assert.Equal(t, 1, f.gateway.callCount())
	assert.Equal(t, 1, f.orders.count())
}

func TestOrderService_CreateOrder_LockReleased(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.svc.CreateOrder(context.Background(), f.jane, "tok_visa")
	require.ErrorIs(t, err, domain.ErrEmptyCart)

	f.fillCart()
	_, err = f.svc.CreateOrder(context.Background(), f.jane, "tok_visa")
	assert.NoError(t, err)
}

func TestOrderService_CreateOrder_Guards(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.svc.CreateOrder(context.Background(), nil, "tok_visa")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.svc.CreateOrder(context.Background(), f.jane, " ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCheckoutKey_Deterministic(t *testing.T) {
	lines := []domain.CartLine{
		{CartItem: domain.CartItem{ID: "c1", Quantity: 2}},
		{CartItem: domain.CartItem{ID: "c2", Quantity: 1}},
	}
	reversed := []domain.CartLine{lines[1], lines[0]}

	assert.Equal(t, checkoutKey("jane", "tok_visa", lines), checkoutKey("jane", "tok_visa", reversed))
	assert.NotEqual(t, checkoutKey("jane", "tok_visa", lines), checkoutKey("bob", "tok_visa", lines))
	assert.NotEqual(t, checkoutKey("jane", "tok_visa", lines), checkoutKey("jane", "tok_mastercard", lines))

	lines[0].Quantity = 3
	assert.NotEqual(t, checkoutKey("jane", "tok_visa", reversed), checkoutKey("jane", "tok_visa", lines))
}

func TestOrderService_Order_OwnerOrAdmin(t *testing.T) {
	f := newCheckoutFixture()
	f.fillCart()
	order, err := f.svc.CreateOrder(context.Background(), f.jane, "tok_visa")
	require.NoError(t, err)

	got, err := f.svc.Order(context.Background(), f.jane, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = f.svc.Order(context.Background(), identityOf(userWith("root", domain.PermissionAdmin)), order.ID)
	assert.NoError(t, err)

	_, err = f.svc.Order(context.Background(), identityOf(userWith("bob", domain.PermissionUser)), order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Order(context.Background(), f.jane, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderService_Orders(t *testing.T) {
	f := newCheckoutFixture()
	f.fillCart()
	_, err := f.svc.CreateOrder(context.Background(), f.jane, "tok_visa")
	require.NoError(t, err)

	mine, err := f.svc.Orders(context.Background(), f.jane, "")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = f.svc.Orders(context.Background(), identityOf(userWith("bob")), "jane")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	theirs, err := f.svc.Orders(context.Background(), identityOf(userWith("root", domain.PermissionAdmin)), "jane")
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}
