package dto

import (
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/shopspring/decimal"
)

type CreateProductInput struct {
	Business      model.Business `validate:"required,oneof=bendeck_tools lusqtoff"`
	CategoryID    string
	Code          string `validate:"required,max=64"`
	Name          string `validate:"required,max=200"`
	Description   string
	ImageURL      string `validate:"omitempty,url"`
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	Stock         int `validate:"gte=0"`
	MinStock      int `validate:"gte=0"`
}

type UpdateProductInput struct {
	ID            string         `validate:"required"`
	Business      model.Business `validate:"required,oneof=bendeck_tools lusqtoff"`
	CategoryID    string
	Code          string `validate:"required,max=64"`
	Name          string `validate:"required,max=200"`
	Description   string
	ImageURL      string `validate:"omitempty,url"`
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	MinStock      int `validate:"gte=0"`
	Active        bool
}
