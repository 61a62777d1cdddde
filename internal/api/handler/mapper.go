package handler

import (
	"time"

	"github.com/sickfits/storefront-api/internal/core/domain"
	"github.com/sickfits/storefront-api/internal/core/ports"
)

// --- Domain → HTTP response ---

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Permissions: domain.PermissionStrings(u.Permissions),
		CreatedAt:   formatTime(u.CreatedAt),
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toItemResponse(it *domain.Item) *itemResponse {
	if it == nil {
		return nil
	}
	return &itemResponse{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Image:       it.Image,
		LargeImage:  it.LargeImage,
		Price:       it.Price,
		OwnerID:     it.OwnerID,
		CreatedAt:   formatTime(it.CreatedAt),
	}
}

func toItemResponses(items []*domain.Item) []*itemResponse {
	out := make([]*itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out
}

func toCartItemResponse(ci *domain.CartItem) cartItemResponse {
	return cartItemResponse{ID: ci.ID, ItemID: ci.ItemID, Quantity: ci.Quantity}
}

func toCartResponse(cart *ports.Cart) cartResponse {
	lines := make([]cartLineResponse, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, cartLineResponse{
			ID:       l.ID,
			Quantity: l.Quantity,
			Item:     toItemResponse(l.Item),
			Subtotal: l.Subtotal(),
		})
	}
	return cartResponse{Lines: lines, Total: cart.Total}
}

func toOrderResponse(o *domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse(it))
	}
	return orderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		Items:     items,
		Total:     o.Total,
		Currency:  o.Currency,
		Charge:    o.Charge,
		CreatedAt: formatTime(o.CreatedAt),
	}
}

func toOrderResponses(orders []*domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

// --- HTTP request → service input ---

func toItemPatch(req updateItemRequest) domain.ItemPatch {
	return domain.ItemPatch{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		LargeImage:  req.LargeImage,
		Price:       req.Price,
	}
}
