package dto

import "github.com/fekuna/omnipos-sales-service/internal/model"

type NotificationList struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unread_count"`
}

// StockLevel is the stock of a product right after it changed.
type StockLevel struct {
	ProductID string `json:"product_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"min_stock"`
}

func (s StockLevel) IsLow() bool {
	return s.Stock <= s.MinStock
}
