package handler

import (
	"github.com/sickfits/storefront-api/internal/core/domain"
)

// --- Auth ---

type signUpRequest struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Name     string `json:"name"     validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type requestResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// resetPasswordRequest is checked for matching passwords by the service so
// that a mismatch is reported before any lookup.
type resetPasswordRequest struct {
	ID              string `json:"id"`
	ResetToken      string `json:"reset_token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type userResponse struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	CreatedAt   string   `json:"created_at"`
}

type messageResponse struct {
	Message string `json:"message"`
	// ResetLink is only populated in development.
	ResetLink string `json:"reset_link,omitempty"`
}

// --- Users ---

type updatePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required,min=1,dive,oneof=ADMIN USER ITEMCREATE ITEMUPDATE ITEMDELETE PERMISSIONUPDATE"`
}

// --- Items ---

type createItemRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Image       string `json:"image"       validate:"omitempty,url"`
	LargeImage  string `json:"large_image" validate:"omitempty,url"`
	Price       int64  `json:"price"       validate:"gt=0"`
}

// updateItemRequest uses pointers so absent fields stay untouched.
type updateItemRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Image       *string `json:"image"       validate:"omitempty,url"`
	LargeImage  *string `json:"large_image" validate:"omitempty,url"`
	Price       *int64  `json:"price"`
}

type listItemsQuery struct {
	Skip   int    `query:"skip"   validate:"gte=0"`
	First  int    `query:"first"  validate:"gte=0,lte=100"`
	Fields string `query:"fields"`
}

type itemResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	LargeImage  string `json:"large_image,omitempty"`
	Price       int64  `json:"price,omitempty"`
	OwnerID     string `json:"owner_id,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

// --- Cart ---

type cartItemResponse struct {
	ID       string `json:"id"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type cartLineResponse struct {
	ID       string        `json:"id"`
	Quantity int           `json:"quantity"`
	Item     *itemResponse `json:"item"`
	Subtotal int64         `json:"subtotal"`
}

type cartResponse struct {
	Lines []cartLineResponse `json:"lines"`
	Total int64              `json:"total"`
}

// --- Orders ---

type createOrderRequest struct {
	Token string `json:"token" validate:"required"`
}

type orderItemResponse struct {
	ItemID      string `json:"item_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	LargeImage  string `json:"large_image,omitempty"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

type orderResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	Items     []orderItemResponse `json:"items"`
	Total     int64               `json:"total"`
	Currency  string              `json:"currency"`
	Charge    string              `json:"charge"`
	CreatedAt string              `json:"created_at"`
}

type listOrdersQuery struct {
	UserID string `query:"user_id"`
}

// permissionsFrom converts already-validated labels.
func permissionsFrom(in []string) []domain.Permission {
	out := make([]domain.Permission, len(in))
	for i, p := range in {
		out[i] = domain.Permission(p)
	}
	return out
}
