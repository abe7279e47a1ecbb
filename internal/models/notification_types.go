package models

import "time"

// Notification types used by the fan-out.
const (
	NotificationOrderPurchase = "order_purchase"
)

// Notification is the model for the 'notifications' table.
// Admin broadcasts are materialized as one row per admin user at write
// time, so UserID is always a concrete recipient.
type Notification struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"userId" db:"user_id"`
	Type      string     `json:"type" db:"type"`
	Title     string     `json:"title" db:"title"`
	Message   string     `json:"message" db:"message"`
	OrderID   *int64     `json:"orderId,omitempty" db:"order_id"`
	ProductID *int64     `json:"productId,omitempty" db:"product_id"`
	IsRead    bool       `json:"isRead" db:"is_read"`
	ReadAt    *time.Time `json:"readAt,omitempty" db:"read_at"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}
