package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentAccount  PaymentMethod = "account"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentAccount:
		return true
	}
	return false
}

type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

type Sale struct {
	ID             string          `db:"id" json:"id"`
	SaleNumber     int64           `db:"sale_number" json:"sale_number"`
	Business       Business        `db:"business" json:"business"`
	CustomerID     *string         `db:"customer_id" json:"customer_id"`
	CustomerName   *string         `db:"customer_name" json:"customer_name"`
	SellerID       string          `db:"seller_id" json:"seller_id"`
	SellerName     string          `db:"seller_name" json:"seller_name"`
	Status         SaleStatus      `db:"status" json:"status"`
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
	Discount       decimal.Decimal `db:"discount" json:"discount"`
	Tax            decimal.Decimal `db:"tax" json:"tax"`
	Total          decimal.Decimal `db:"total" json:"total"`
	PaymentMethod  PaymentMethod   `db:"payment_method" json:"payment_method"`
	Notes          *string         `db:"notes" json:"notes"`
	IdempotencyKey string          `db:"idempotency_key" json:"idempotency_key"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	Items          []SaleItem      `db:"-" json:"items"`
}

type SaleItem struct {
	ID          string          `db:"id" json:"id"`
	SaleID      string          `db:"sale_id" json:"sale_id"`
	ProductID   string          `db:"product_id" json:"product_id"`
	ProductCode string          `db:"product_code" json:"product_code"`
	ProductName string          `db:"product_name" json:"product_name"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	Discount    decimal.Decimal `db:"discount" json:"discount"` // percentage 0..100
	Total       decimal.Decimal `db:"total" json:"total"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
