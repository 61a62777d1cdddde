package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sickfits/storefront-api/internal/core/domain"
	"github.com/sickfits/storefront-api/internal/core/policy"
	"github.com/sickfits/storefront-api/internal/core/ports"
	"github.com/sickfits/storefront-api/internal/pkg/metrics"
)

// CartService implements the cart use cases.
type CartService struct {
	carts  ports.CartRepository
	items  ports.ItemRepository
	logger zerolog.Logger
}

func NewCartService(carts ports.CartRepository, items ports.ItemRepository, logger zerolog.Logger) *CartService {
	return &CartService{carts: carts, items: items, logger: logger}
}

// AddToCart increments the caller's row for itemID, creating it if needed.
func (s *CartService) AddToCart(ctx context.Context, caller *domain.Identity, itemID string) (*domain.CartItem, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, err
	}
	return s.carts.Increment(ctx, caller.UserID, itemID)
}

// RemoveFromCart deletes a row the caller owns. Touching someone else's row
// is a security event, not an ordinary denial.
func (s *CartService) RemoveFromCart(ctx context.Context, caller *domain.Identity, cartItemID string) (*domain.CartItem, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthorized
	}

	ci, err := s.carts.FindByID(ctx, cartItemID)
	if err != nil {
		return nil, err
	}
	if d := policy.CartItemRemoval(caller, ci); !d.Allowed {
		metrics.SecurityEventsTotal.WithLabelValues("cart_ownership_mismatch").Inc()
		s.logger.Warn().
			Str("event", "security.cart_ownership_mismatch").
			Str("user_id", caller.UserID).
			Str("cart_item_id", ci.ID).
			Str("owner_id", ci.UserID).
			Msg("attempt to remove another user's cart item")
		return nil, d.Err()
	}

	if err := s.carts.Delete(ctx, ci.ID); err != nil {
		return nil, err
	}
	return ci, nil
}

func (s *CartService) Cart(ctx context.Context, caller *domain.Identity) (*ports.Cart, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	lines, err := loadCart(ctx, s.carts, s.items, caller.UserID)
	if err != nil {
		return nil, err
	}
	return &ports.Cart{Lines: lines, Total: domain.CartTotal(lines)}, nil
}

// loadCart joins the user's cart rows with the live items. Rows whose item
// was deleted come back with a nil Item.
func loadCart(ctx context.Context, carts ports.CartRepository, items ports.ItemRepository, userID string) ([]domain.CartLine, error) {
	rows, err := carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ItemID)
	}
	byID, err := items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}

	lines := make([]domain.CartLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, domain.CartLine{CartItem: *r, Item: byID[r.ItemID]})
	}
	return lines, nil
}
