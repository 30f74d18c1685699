package model

import "github.com/shopspring/decimal"

type Customer struct {
	BaseModel
	Business       Business        `db:"business" json:"business"`
	Code           string          `db:"code" json:"code"`
	Name           string          `db:"name" json:"name"`
	Email          *string         `db:"email" json:"email"`
	Phone          *string         `db:"phone" json:"phone"`
	TaxID          *string         `db:"tax_id" json:"tax_id"`
	Address        *string         `db:"address" json:"address"`
	City           *string         `db:"city" json:"city"`
	Active         bool            `db:"active" json:"active"`
	CreditLimit    decimal.Decimal `db:"credit_limit" json:"credit_limit"`
	CurrentBalance decimal.Decimal `db:"current_balance" json:"current_balance"` // positive = owes
}
