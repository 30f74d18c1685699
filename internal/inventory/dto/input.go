package dto

import "github.com/fekuna/omnipos-sales-service/internal/model"

// AdjustStockInput is a manual stock correction: a purchase received, a count, a breakage.
type AdjustStockInput struct {
	Business       model.Business `validate:"required,oneof=bendeck_tools lusqtoff"`
	ProductID      string         `validate:"required"`
	QuantityChange int
	Reason         string `validate:"max=500"`
	UserID         string
}
