package account

import (
	"testing"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/money"
)

func mv(id, amount, after string) model.AccountMovement {
	return model.AccountMovement{ID: id, Amount: money.MustParse(amount), BalanceAfter: money.MustParse(after)}
}

func TestReplay(t *testing.T) {
	tests := []struct {
		name       string
		history    []model.AccountMovement
		cached     string
		consistent bool
		brokenAt   string
		computed   string
	}{
		{"empty", nil, "0", true, "", "0"},
		{
			"sale charge payment",
			[]model.AccountMovement{mv("m1", "250", "250"), mv("m2", "100", "350"), mv("m3", "-300", "50")},
			"50", true, "", "50",
		},
		{
			"lost update",
			[]model.AccountMovement{mv("m1", "100", "100"), mv("m2", "100", "100")},
			"100", false, "m2", "200",
		},
		{
			"cached drift",
			[]model.AccountMovement{mv("m1", "100", "100")},
			"90", false, "", "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := Replay(tt.history, money.MustParse(tt.cached))
			if rep.Consistent != tt.consistent || rep.BrokenAt != tt.brokenAt {
				t.Fatalf("got consistent=%v brokenAt=%q", rep.Consistent, rep.BrokenAt)
			}
			if !rep.ComputedBalance.Equal(money.MustParse(tt.computed)) {
				t.Fatalf("computed = %s, want %s", rep.ComputedBalance, tt.computed)
			}
			if rep.Movements != len(tt.history) {
				t.Fatalf("movements = %d", rep.Movements)
			}
		})
	}
}
