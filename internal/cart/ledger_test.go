package cart

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"github.com/shopspring/decimal"
)

func product(id string, price string) ProductRef {
	return ProductRef{ID: id, Code: "C-" + id, Name: "Product " + id, SalePrice: money.MustParse(price), Stock: 10}
}

func assertIdentity(t *testing.T, c *Cart) {
	t.Helper()
	if want := c.Subtotal().Sub(c.TotalDiscount()); !c.Total().Equal(want) {
		t.Fatalf("total %s != subtotal %s - discount %s", c.Total(), c.Subtotal(), c.TotalDiscount())
	}
}

func TestAddItemMergesSameProduct(t *testing.T) {
	c := New()
	p := product("a", "100")

	c.AddItem(p, 2)
	c.AddItem(p, 3)

	if len(c.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", c.Items[0].Quantity)
	}
	if !c.Items[0].Total.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected total 500, got %s", c.Items[0].Total)
	}
}

func TestAddItemDefaultsToOne(t *testing.T) {
	c := New()
	c.AddItem(product("a", "10"), 0)
	if c.ItemCount() != 1 {
		t.Fatalf("expected 1 item, got %d", c.ItemCount())
	}
}

func TestAddItemKeepsInsertionOrder(t *testing.T) {
	c := New()
	c.AddItem(product("b", "1"), 1)
	c.AddItem(product("a", "1"), 1)
	c.AddItem(product("b", "1"), 1)

	if c.Items[0].Product.ID != "b" || c.Items[1].Product.ID != "a" {
		t.Fatalf("unexpected order %v", []string{c.Items[0].Product.ID, c.Items[1].Product.ID})
	}
}

func TestAddItemDoesNotCheckStock(t *testing.T) {
	c := New()
	p := product("a", "10")
	p.Stock = 0
	c.AddItem(p, 50)
	if c.ItemCount() != 50 {
		t.Fatalf("ledger should accept any quantity, got %d", c.ItemCount())
	}
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	removed := New()
	removed.AddItem(product("a", "10"), 2)
	removed.AddItem(product("b", "5"), 1)
	removed.RemoveItem("a")

	updated := New()
	updated.AddItem(product("a", "10"), 2)
	updated.AddItem(product("b", "5"), 1)
	updated.UpdateQuantity("a", 0)

	if len(updated.Items) != len(removed.Items) || updated.Items[0].Product.ID != "b" {
		t.Fatalf("updateQuantity(0) should equal remove, got %+v", updated.Items)
	}
	if !updated.Total().Equal(removed.Total()) {
		t.Fatalf("totals differ: %s vs %s", updated.Total(), removed.Total())
	}

	updated.UpdateQuantity("b", -3)
	if !updated.IsEmpty() {
		t.Fatal("negative quantity should remove the line")
	}
}

func TestUpdateQuantityRecomputesWithDiscount(t *testing.T) {
	c := New()
	c.AddItem(product("a", "100"), 1)
	c.UpdateDiscount("a", decimal.NewFromInt(10))
	c.UpdateQuantity("a", 4)

	if !c.Items[0].Total.Equal(decimal.NewFromInt(360)) {
		t.Fatalf("expected 360, got %s", c.Items[0].Total)
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	c := New()
	c.AddItem(product("a", "10"), 1)
	c.RemoveItem("missing")
	c.RemoveItem("a")
	c.RemoveItem("a")
	if !c.IsEmpty() {
		t.Fatal("expected empty cart")
	}
}

func TestUpdateDiscountClamps(t *testing.T) {
	tests := []struct {
		name     string
		discount decimal.Decimal
		want     decimal.Decimal
	}{
		{"above 100", decimal.NewFromInt(150), decimal.NewFromInt(100)},
		{"below 0", decimal.NewFromInt(-10), decimal.Zero},
		{"in range", money.MustParse("12.5"), money.MustParse("12.5")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.AddItem(product("a", "80"), 2)
			c.UpdateDiscount("a", tt.discount)
			if !c.Items[0].Discount.Equal(tt.want) {
				t.Fatalf("discount = %s, want %s", c.Items[0].Discount, tt.want)
			}
			assertIdentity(t, c)
		})
	}
}

func TestTwoLineScenario(t *testing.T) {
	c := New()
	c.AddItem(product("A", "100"), 3)
	c.UpdateDiscount("A", decimal.NewFromInt(10))
	c.AddItem(product("B", "50"), 1)

	if !c.Subtotal().Equal(decimal.NewFromInt(350)) {
		t.Fatalf("subtotal = %s, want 350", c.Subtotal())
	}
	if !c.TotalDiscount().Equal(decimal.NewFromInt(30)) {
		t.Fatalf("discount = %s, want 30", c.TotalDiscount())
	}
	if !c.Total().Equal(decimal.NewFromInt(320)) {
		t.Fatalf("total = %s, want 320", c.Total())
	}
	if c.ItemCount() != 4 {
		t.Fatalf("item count = %d, want 4", c.ItemCount())
	}
}

func TestIdentityHoldsForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	prices := []string{"0.10", "19.99", "1234.57", "3.33", "250"}
	ids := []string{"p1", "p2", "p3", "p4", "p5"}

	c := New()
	for step := 0; step < 2000; step++ {
		i := rng.Intn(len(ids))
		switch rng.Intn(4) {
		case 0:
			c.AddItem(product(ids[i], prices[i]), rng.Intn(5))
		case 1:
			c.UpdateQuantity(ids[i], rng.Intn(12)-2)
		case 2:
			d := decimal.NewFromFloat(rng.Float64()*140 - 20).Round(2)
			c.UpdateDiscount(ids[i], d)
		case 3:
			c.RemoveItem(ids[i])
		}
		assertIdentity(t, c)
		seen := map[string]bool{}
		for _, l := range c.Items {
			if seen[l.Product.ID] {
				t.Fatalf("duplicate line for %s", l.Product.ID)
			}
			seen[l.Product.ID] = true
			if l.Discount.LessThan(decimal.Zero) || l.Discount.GreaterThan(money.Hundred) {
				t.Fatalf("discount out of range: %s", l.Discount)
			}
		}
	}
}

func TestPaymentMethodRequiresCustomerForAccount(t *testing.T) {
	c := New()

	if err := c.SetPaymentMethod(model.PaymentAccount); !errors.Is(err, ErrAccountNeedsCustomer) {
		t.Fatalf("expected ErrAccountNeedsCustomer, got %v", err)
	}
	if c.PaymentMethod != "" {
		t.Fatalf("payment method must stay unset, got %q", c.PaymentMethod)
	}
	if err := c.SetPaymentMethod("bitcoin"); !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}

	c.SetCustomer(&CustomerRef{ID: "c1", Name: "Ferretería Sur"})
	if err := c.SetPaymentMethod(model.PaymentAccount); err != nil {
		t.Fatalf("account with customer: %v", err)
	}

	c.SetCustomer(nil)
	if c.PaymentMethod != "" {
		t.Fatalf("removing the customer must reset account payment, got %q", c.PaymentMethod)
	}

	c.SetCustomer(&CustomerRef{ID: "c1"})
	_ = c.SetPaymentMethod(model.PaymentCash)
	c.SetCustomer(nil)
	if c.PaymentMethod != model.PaymentCash {
		t.Fatalf("cash should survive customer removal, got %q", c.PaymentMethod)
	}
}

func TestClearResetsEverything(t *testing.T) {
	c := New()
	c.AddItem(product("a", "10"), 3)
	c.SetCustomer(&CustomerRef{ID: "c1"})
	_ = c.SetPaymentMethod(model.PaymentAccount)
	c.SetNotes("entregar el lunes")

	c.Clear()

	if !c.IsEmpty() || c.Customer != nil || c.PaymentMethod != "" || c.Notes != "" {
		t.Fatalf("cart not reset: %+v", c)
	}
	if !c.Total().IsZero() || c.ItemCount() != 0 {
		t.Fatal("derived values must be zero after clear")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := New()
	c.AddItem(product("a", "10"), 1)
	c.SetCustomer(&CustomerRef{ID: "c1", Name: "A"})

	snap := c.Clone()
	c.Clear()

	if len(snap.Items) != 1 || snap.Customer == nil || snap.Customer.Name != "A" {
		t.Fatalf("snapshot changed after clear: %+v", snap)
	}
}
