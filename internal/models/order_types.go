package models

import (
	"time"
)

// Order statuses shown in the storefront and the admin console.
// These five literals are the ONLY values the status endpoint accepts.
const (
	StatusMenunggu        = "Menunggu"
	StatusSelesai         = "Selesai"
	StatusGagal           = "Gagal"
	StatusDikirim         = "Dikirim"
	StatusDalamPengiriman = "Dalam Pengiriman"
)

// IsValidOrderStatus reports whether s is one of the five allowed statuses.
func IsValidOrderStatus(s string) bool {
	switch s {
	case StatusMenunggu, StatusSelesai, StatusGagal, StatusDikirim, StatusDalamPengiriman:
		return true
	}
	return false
}

// Order is the model for the 'orders' table.
// Contact fields are a snapshot taken at checkout, not a live join
// against the users table (guest checkout has no user row at all).
type Order struct {
	ID            int64     `json:"id" db:"id"`
	OrderNumber   string    `json:"orderNumber" db:"order_number"`
	UserID        *int64    `json:"userId,omitempty" db:"user_id"` // nil for guest checkout
	Email         string    `json:"email" db:"email"`
	Name          string    `json:"name" db:"name"`
	Phone         string    `json:"phone" db:"phone"`
	Address       string    `json:"address" db:"address"`
	City          string    `json:"city" db:"city"`
	Province      string    `json:"province" db:"province"`
	PostalCode    string    `json:"postalCode" db:"postal_code"`
	PaymentMethod string    `json:"paymentMethod" db:"payment_method"` // qris | bank | cod (informational only)
	Subtotal      float64   `json:"subtotal" db:"subtotal"`
	Discount      float64   `json:"discount" db:"discount"`
	DeliveryFee   float64   `json:"deliveryFee" db:"delivery_fee"`
	Total         float64   `json:"total" db:"total"`
	Status        string    `json:"status" db:"status"`
	Meta          OrderMeta `json:"metadata" db:"metadata"` // JSON column
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`

	// Joins (not in the orders table, populated manually)
	Items []OrderItem `json:"items,omitempty" db:"-"`
}

// ItemOptions holds the buyer-selected variant of a line item.
type ItemOptions struct {
	Size  string `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

// OrderItem is the model for the 'order_items' table.
// Name and UnitPrice are snapshots taken at purchase time so the order
// history survives product edits and deletions.
type OrderItem struct {
	ID         int64       `json:"id" db:"id"`
	OrderID    int64       `json:"orderId" db:"order_id"`
	ProductID  *int64      `json:"productId,omitempty" db:"product_id"` // nil once the product is gone
	Name       string      `json:"name" db:"name"`
	UnitPrice  float64     `json:"unitPrice" db:"unit_price"`
	Quantity   int         `json:"quantity" db:"quantity"`
	TotalPrice float64     `json:"totalPrice" db:"total_price"`
	Options    ItemOptions `json:"selectedOptions" db:"selected_options"` // stored as JSON in DB
	CreatedAt  time.Time   `json:"createdAt" db:"created_at"`
}
