// Package money holds the decimal helpers shared by the cart, checkout and ledger.
//
// Amounts are computed exactly and rounded once, to two places, when they are
// persisted. shopspring's Round rounds half away from zero.
package money

import "github.com/shopspring/decimal"

const Places = 2

var (
	Zero    = decimal.Zero
	Hundred = decimal.NewFromInt(100)
)

// Round applies the persistence rounding rule.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// ClampPercent bounds p to [0,100] and keeps two decimals.
func ClampPercent(p decimal.Decimal) decimal.Decimal {
	if p.LessThan(Zero) {
		return Zero
	}
	if p.GreaterThan(Hundred) {
		return Hundred
	}
	return p.Round(Places)
}

// Gross returns quantity × unit price.
func Gross(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// DiscountAmount returns gross × percent / 100.
func DiscountAmount(gross, percent decimal.Decimal) decimal.Decimal {
	return gross.Mul(percent).Div(Hundred)
}

// LineTotal returns quantity × unitPrice × (1 − percent/100), unrounded.
func LineTotal(quantity int, unitPrice, percent decimal.Decimal) decimal.Decimal {
	gross := Gross(quantity, unitPrice)
	return gross.Sub(DiscountAmount(gross, percent))
}

// Ratio returns part/whole, or zero when whole is zero.
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return Zero
	}
	return part.DivRound(whole, 4)
}

func MustParse(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
