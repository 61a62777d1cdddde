package ports

import (
	"context"

	"github.com/sickfits/storefront-api/internal/core/domain"
)

// CartRepository defines persistence operations for cart rows.
type CartRepository interface {
	// Increment adds one of itemID to the user's cart, creating the row with
	// quantity 1 if needed. Must be atomic per (user, item).
	Increment(ctx context.Context, userID, itemID string) (*domain.CartItem, error)
	FindByID(ctx context.Context, id string) (*domain.CartItem, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.CartItem, error)
	Delete(ctx context.Context, id string) error
}
