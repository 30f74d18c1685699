package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Business      Business        `db:"business" json:"business"`
	CategoryID    *string         `db:"category_id" json:"category_id"` // Nullable
	Code          string          `db:"code" json:"code"`
	Name          string          `db:"name" json:"name"`
	Description   *string         `db:"description" json:"description"`
	ImageURL      *string         `db:"image_url" json:"image_url"`
	PurchasePrice decimal.Decimal `db:"purchase_price" json:"purchase_price"`
	SalePrice     decimal.Decimal `db:"sale_price" json:"sale_price"`
	Stock         int             `db:"stock" json:"stock"`
	MinStock      int             `db:"min_stock" json:"min_stock"`
	Active        bool            `db:"active" json:"active"`
	Category      *Category       `db:"-" json:"category,omitempty"` // Joined data
}

// IsLowStock mirrors the low-stock rule used by the dashboard and alerts.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

type StockMovement struct {
	ID             string    `db:"id" json:"id"`
	Business       Business  `db:"business" json:"business"`
	ProductID      string    `db:"product_id" json:"product_id"`
	SaleID         *string   `db:"sale_id" json:"sale_id"`
	MovementType   string    `db:"movement_type" json:"movement_type"`
	QuantityChange int       `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int       `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after" json:"quantity_after"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedBy      *string   `db:"created_by" json:"created_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

const (
	StockMovementSale       = "sale"
	StockMovementAdjustment = "adjustment"
)
