package account

import (
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"github.com/shopspring/decimal"
)

type CreditState string

const (
	CreditNoCredit CreditState = "no_credit"
	CreditOK       CreditState = "ok"
	CreditWarning  CreditState = "warning"
	CreditExceeded CreditState = "exceeded"
)

// CreditStatus is advisory. No operation is ever blocked on it.
type CreditStatus struct {
	CustomerID   string          `json:"customer_id"`
	Balance      decimal.Decimal `json:"balance"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	Available    decimal.Decimal `json:"available"`
	UsagePercent decimal.Decimal `json:"usage_percent"`
	State        CreditState     `json:"state"`
}

// EvaluateCredit classifies balance against limit. warningRatio is the share of the
// limit (0.8 by default) at which the warning starts.
func EvaluateCredit(balance, limit decimal.Decimal, warningRatio float64) CreditStatus {
	st := CreditStatus{
		Balance:     balance,
		CreditLimit: limit,
	}
	if !limit.IsPositive() {
		st.State = CreditNoCredit
		st.Available = money.Zero
		st.UsagePercent = money.Zero
		return st
	}

	st.Available = limit.Sub(balance)
	st.UsagePercent = money.Round(money.Ratio(balance, limit).Mul(money.Hundred))

	switch {
	case balance.GreaterThanOrEqual(limit):
		st.State = CreditExceeded
	case balance.GreaterThanOrEqual(limit.Mul(decimal.NewFromFloat(warningRatio))):
		st.State = CreditWarning
	default:
		st.State = CreditOK
	}
	return st
}
