package model

import "time"

const (
	NotificationLowStock = "low_stock"
	NotificationSale     = "sale"
	NotificationInfo     = "info"
)

type Notification struct {
	ID        string    `db:"id" json:"id"`
	Business  *Business `db:"business" json:"business"` // nil = every business
	UserID    *string   `db:"user_id" json:"user_id"`   // nil = broadcast
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Type      string    `db:"type" json:"type"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
