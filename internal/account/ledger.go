package account

import (
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"github.com/shopspring/decimal"
)

type LedgerReport struct {
	CustomerID      string          `json:"customer_id"`
	Movements       int             `json:"movements"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	CachedBalance   decimal.Decimal `json:"cached_balance"`
	Consistent      bool            `json:"consistent"`
	// BrokenAt is the first movement whose balance_after does not follow its predecessor.
	BrokenAt string `json:"broken_at,omitempty"`
}

// Replay walks history (oldest first) and checks balance_after(n) = balance_after(n-1) + amount(n)
// and that the cached customer balance equals the last balance_after.
func Replay(history []model.AccountMovement, cached decimal.Decimal) LedgerReport {
	rep := LedgerReport{
		Movements:     len(history),
		CachedBalance: cached,
		Consistent:    true,
	}

	running := money.Zero
	for _, m := range history {
		running = money.Round(running.Add(m.Amount))
		if rep.BrokenAt == "" && !running.Equal(m.BalanceAfter) {
			rep.BrokenAt = m.ID
			rep.Consistent = false
		}
	}
	rep.ComputedBalance = running

	if !running.Equal(cached) {
		rep.Consistent = false
	}
	return rep
}
