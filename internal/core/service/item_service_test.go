package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sickfits/storefront-api/internal/core/domain"
	"github.com/sickfits/storefront-api/internal/core/ports"
)

func ptr[T any](v T) *T { return &v }

func TestItemService_CreateItem(t *testing.T) {
	svc := NewItemService(newStubItemRepo(), zerolog.Nop())
	owner := identityOf(userWith("u1", domain.PermissionUser))

	_, err := svc.CreateItem(context.Background(), nil, ports.CreateItemInput{Title: "Hat", Price: 100})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.CreateItem(context.Background(), owner, ports.CreateItemInput{Title: "Hat", Price: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateItem(context.Background(), owner, ports.CreateItemInput{Title: "  ", Price: 100})
	assert.ErrorIs(t, err, domain.ErrValidation)

	item, err := svc.CreateItem(context.Background(), owner, ports.CreateItemInput{Title: " Hat ", Description: "wool", Price: 100})
	require.NoError(t, err)
	assert.Equal(t, "Hat", item.Title)
	assert.Equal(t, "u1", item.OwnerID)
	assert.NotEmpty(t, item.ID)
}

func TestItemService_DeleteItem_ForbiddenLeavesItem(t *testing.T) {
	repo := newStubItemRepo()
	repo.put(&domain.Item{ID: "i1", Title: "Hat", Price: 100, OwnerID: "owner"})
	svc := NewItemService(repo, zerolog.Nop())

	stranger := identityOf(userWith("other", domain.PermissionUser, domain.PermissionItemUpdate))
	_, err := svc.DeleteItem(context.Background(), stranger, "i1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = repo.FindByID(context.Background(), "i1")
	assert.NoError(t, err, "item must remain after a denied delete")
}

func TestItemService_DeleteItem_Allowed(t *testing.T) {
	cases := map[string]*domain.Identity{
		"owner":      identityOf(userWith("owner", domain.PermissionUser)),
		"itemdelete": identityOf(userWith("mod", domain.PermissionItemDelete)),
		"admin":      identityOf(userWith("root", domain.PermissionAdmin)),
	}
	for name, caller := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newStubItemRepo()
			repo.put(&domain.Item{ID: "i1", Title: "Hat", Price: 100, OwnerID: "owner"})
			svc := NewItemService(repo, zerolog.Nop())

			deleted, err := svc.DeleteItem(context.Background(), caller, "i1")
			require.NoError(t, err)
			assert.Equal(t, "Hat", deleted.Title)

			_, err = repo.FindByID(context.Background(), "i1")
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestItemService_DeleteItem_NotFound(t *testing.T) {
	svc := NewItemService(newStubItemRepo(), zerolog.Nop())
	_, err := svc.DeleteItem(context.Background(), identityOf(userWith("u1")), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemService_UpdateItem(t *testing.T) {
	repo := newStubItemRepo()
	repo.put(&domain.Item{ID: "i1", Title: "Hat", Price: 100, OwnerID: "owner"})
	svc := NewItemService(repo, zerolog.Nop())
	owner := identityOf(userWith("owner"))

	_, err := svc.UpdateItem(context.Background(), owner, "i1", domain.ItemPatch{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateItem(context.Background(), owner, "i1", domain.ItemPatch{Price: ptr(int64(-5))})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateItem(context.Background(), identityOf(userWith("other", domain.PermissionItemDelete)), "i1", domain.ItemPatch{Title: ptr("Cap")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := svc.UpdateItem(context.Background(), owner, "i1", domain.ItemPatch{Title: ptr("Cap"), Price: ptr(int64(250))})
	require.NoError(t, err)
	assert.Equal(t, "Cap", updated.Title)
	assert.Equal(t, int64(250), updated.Price)

	updated, err = svc.UpdateItem(context.Background(), identityOf(userWith("mod", domain.PermissionItemUpdate)), "i1", domain.ItemPatch{Description: ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Description)
}

func TestItemService_Items_ClampsPage(t *testing.T) {
	repo := newStubItemRepo()
	for i := 0; i < 3; i++ {
		_, _ = repo.Create(context.Background(), &domain.Item{Title: "x", Price: 1})
	}
	svc := NewItemService(repo, zerolog.Nop())

	items, err := svc.Items(context.Background(), ports.ListItemsFilter{Skip: -1, First: 0})
	require.NoError(t, err)
	assert.Len(t, items, 3)

	items, err = svc.Items(context.Background(), ports.ListItemsFilter{Skip: 1, First: 1})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	n, err := svc.ItemsCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
