package ports

import (
	"context"

	"github.com/sickfits/storefront-api/internal/core/domain"
)

// Cart is the caller's current cart with live prices.
type Cart struct {
	Lines []domain.CartLine
	Total int64
}

// CartService defines cart operations.
type CartService interface {
	AddToCart(ctx context.Context, caller *domain.Identity, itemID string) (*domain.CartItem, error)
	RemoveFromCart(ctx context.Context, caller *domain.Identity, cartItemID string) (*domain.CartItem, error)
	Cart(ctx context.Context, caller *domain.Identity) (*Cart, error)
}

// OrderService defines checkout and order queries.
type OrderService interface {
	CreateOrder(ctx context.Context, caller *domain.Identity, sourceToken string) (*domain.Order, error)
	Order(ctx context.Context, caller *domain.Identity, id string) (*domain.Order, error)
	// Orders lists userID's orders; empty userID means the caller's own.
	Orders(ctx context.Context, caller *domain.Identity, userID string) ([]*domain.Order, error)
}
