package dto

import (
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/shopspring/decimal"
)

type CreateCustomerInput struct {
	Business    model.Business `validate:"required,oneof=bendeck_tools lusqtoff"`
	Code        string         `validate:"required,max=64"`
	Name        string         `validate:"required,max=200"`
	Email       string         `validate:"omitempty,email"`
	Phone       string         `validate:"max=40"`
	TaxID       string         `validate:"max=40"`
	Address     string
	City        string
	CreditLimit decimal.Decimal
}

type UpdateCustomerInput struct {
	ID          string         `validate:"required"`
	Business    model.Business `validate:"required,oneof=bendeck_tools lusqtoff"`
	Code        string         `validate:"required,max=64"`
	Name        string         `validate:"required,max=200"`
	Email       string         `validate:"omitempty,email"`
	Phone       string         `validate:"max=40"`
	TaxID       string         `validate:"max=40"`
	Address     string
	City        string
	CreditLimit decimal.Decimal
	Active      bool
}
