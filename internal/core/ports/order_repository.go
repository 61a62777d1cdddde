package ports

import (
	"context"

	"github.com/sickfits/storefront-api/internal/core/domain"
)

// ConsumedCartItem is a cart row as it was priced at checkout.
type ConsumedCartItem struct {
	ID       string
	Quantity int
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	// CreateFromCart inserts the order and, as one unit of work, takes the
	// consumed quantity off each listed row owned by order.UserID. Rows left
	// at zero are deleted; units added after checkout priced the cart stay.
	CreateFromCart(ctx context.Context, order *domain.Order, consumed []ConsumedCartItem) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
}
