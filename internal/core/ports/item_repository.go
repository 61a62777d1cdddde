package ports

import (
	"context"

	"github.com/sickfits/storefront-api/internal/core/domain"
)

// ListItemsFilter pages through the catalog, newest first.
type ListItemsFilter struct {
	Skip  int
	First int
	// Fields is the requested projection; empty means every field.
	Fields []string
}

// ItemRepository defines persistence operations for catalog items.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	FindByID(ctx context.Context, id string) (*domain.Item, error)
	// FindByIDs returns the items that still exist, keyed by id.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Item, error)
	List(ctx context.Context, filter ListItemsFilter) ([]*domain.Item, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error)
	Delete(ctx context.Context, id string) error
}
