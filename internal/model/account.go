package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementSale    MovementType = "sale"
	MovementPayment MovementType = "payment"
	MovementCredit  MovementType = "credit"
)

// AccountMovement is one append-only entry of a customer's running balance.
// BalanceAfter = previous BalanceAfter (or 0) + Amount.
type AccountMovement struct {
	ID           string          `db:"id" json:"id"`
	CustomerID   string          `db:"customer_id" json:"customer_id"`
	SaleID       *string         `db:"sale_id" json:"sale_id"`
	Type         MovementType    `db:"type" json:"type"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	BalanceAfter decimal.Decimal `db:"balance_after" json:"balance_after"`
	Description  string          `db:"description" json:"description"`
	CreatedBy    *string         `db:"created_by" json:"created_by"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}
