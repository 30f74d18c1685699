package dto

import (
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/shopspring/decimal"
)

// ManualMovementInput is a payment received or a manual charge entered at the counter.
// Amount is always positive; the use-case applies the sign.
type ManualMovementInput struct {
	Business    model.Business `validate:"required,oneof=bendeck_tools lusqtoff"`
	CustomerID  string         `validate:"required"`
	Amount      decimal.Decimal
	Description string `validate:"max=500"`
	UserID      string
}
