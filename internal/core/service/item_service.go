package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sickfits/storefront-api/internal/core/domain"
	"github.com/sickfits/storefront-api/internal/core/policy"
	"github.com/sickfits/storefront-api/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ItemService implements the catalog use cases.
type ItemService struct {
	items  ports.ItemRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewItemService(items ports.ItemRepository, logger zerolog.Logger) *ItemService {
	return &ItemService{items: items, logger: logger, now: time.Now}
}

// CreateItem needs only a signed-in caller; the caller becomes the owner.
func (s *ItemService) CreateItem(ctx context.Context, caller *domain.Identity, in ports.CreateItemInput) (*domain.Item, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ValidationError("title is required")
	}
	if in.Price <= 0 {
		return nil, domain.ValidationError("price must be positive")
	}

	now := s.now().UTC()
	item, err := s.items.Create(ctx, &domain.Item{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Image:       in.Image,
		LargeImage:  in.LargeImage,
		Price:       in.Price,
		OwnerID:     caller.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("item_id", item.ID).Str("owner_id", item.OwnerID).Msg("item created")
	return item, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, caller *domain.Identity, id string, patch domain.ItemPatch) (*domain.Item, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	if patch.Empty() {
		return nil, domain.ValidationError("nothing to update")
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.ValidationError("title must not be empty")
	}
	if patch.Price != nil && *patch.Price <= 0 {
		return nil, domain.ValidationError("price must be positive")
	}

	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.ItemUpdate(caller, item).Err(); err != nil {
		logDenied(s.logger, caller, "update_item", id, err)
		return nil, err
	}

	updated, err := s.items.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("item_id", id).Str("actor_id", caller.UserID).Msg("item updated")
	return updated, nil
}

// DeleteItem removes the item and returns it as it was.
func (s *ItemService) DeleteItem(ctx context.Context, caller *domain.Identity, id string) (*domain.Item, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthorized
	}

	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.ItemDeletion(caller, item).Err(); err != nil {
		logDenied(s.logger, caller, "delete_item", id, err)
		return nil, err
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info().Str("item_id", id).Str("actor_id", caller.UserID).Msg("item deleted")
	return item, nil
}

func (s *ItemService) Item(ctx context.Context, id string) (*domain.Item, error) {
	return s.items.FindByID(ctx, id)
}

// Items pages the catalog; First is clamped to [1, 100] with a default of 20.
func (s *ItemService) Items(ctx context.Context, filter ports.ListItemsFilter) ([]*domain.Item, error) {
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.First <= 0 {
		filter.First = defaultPageSize
	}
	if filter.First > maxPageSize {
		filter.First = maxPageSize
	}
	return s.items.List(ctx, filter)
}

func (s *ItemService) ItemsCount(ctx context.Context) (int64, error) {
	return s.items.Count(ctx)
}
