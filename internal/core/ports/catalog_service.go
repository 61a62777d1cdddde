package ports

import (
	"context"

	"github.com/sickfits/storefront-api/internal/core/domain"
)

// CreateItemInput carries the fields of a new catalog item.
type CreateItemInput struct {
	Title       string
	Description string
	Image       string
	LargeImage  string
	Price       int64
}

// ItemService defines catalog operations.
type ItemService interface {
	CreateItem(ctx context.Context, caller *domain.Identity, in CreateItemInput) (*domain.Item, error)
	UpdateItem(ctx context.Context, caller *domain.Identity, id string, patch domain.ItemPatch) (*domain.Item, error)
	DeleteItem(ctx context.Context, caller *domain.Identity, id string) (*domain.Item, error)
	Item(ctx context.Context, id string) (*domain.Item, error)
	Items(ctx context.Context, filter ListItemsFilter) ([]*domain.Item, error)
	ItemsCount(ctx context.Context) (int64, error)
}
