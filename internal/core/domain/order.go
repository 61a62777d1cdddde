package domain

import "time"

// OrderItem freezes an item as it was at checkout time.
type OrderItem struct {
	ItemID      string `json:"item_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	LargeImage  string `json:"large_image,omitempty"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

// Order is the immutable result of a successful checkout.
// Total is the amount the payment collaborator reports as captured.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Items     []OrderItem `json:"items"`
	Total     int64       `json:"total"`
	Currency  string      `json:"currency"`
	Charge    string      `json:"charge"`
	CreatedAt time.Time   `json:"created_at"`
}

// SnapshotOrderItem copies the purchase-relevant fields of a cart line.
func SnapshotOrderItem(line CartLine) OrderItem {
	return OrderItem{
		ItemID:      line.Item.ID,
		Title:       line.Item.Title,
		Description: line.Item.Description,
		Image:       line.Item.Image,
		LargeImage:  line.Item.LargeImage,
		Price:       line.Item.Price,
		Quantity:    line.Quantity,
	}
}

// Capture is the payment collaborator's view of a successful charge.
type Capture struct {
	ChargeID string
	Amount   int64
	Currency string
}
