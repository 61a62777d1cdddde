package domain

import "time"

// Item is a mutable product record owned by the user who created it.
type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	LargeImage  string    `json:"large_image,omitempty"`
	Price       int64     `json:"price"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemPatch carries the fields an update may change. Nil means unchanged.
type ItemPatch struct {
	Title       *string
	Description *string
	Image       *string
	LargeImage  *string
	Price       *int64
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Image == nil && p.LargeImage == nil && p.Price == nil
}

// CartItem links a user to an item. There is at most one per (user, item).
type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ItemID    string    `json:"item_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// CartLine is a cart row joined with the live item it points at.
// Item is nil when the item has been deleted since it was added.
type CartLine struct {
	CartItem
	Item *Item `json:"item"`
}

// Subtotal is the live price of the line.
func (l CartLine) Subtotal() int64 {
	if l.Item == nil {
		return 0
	}
	return l.Item.Price * int64(l.Quantity)
}

// CartTotal sums the live subtotals of all lines.
func CartTotal(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}
