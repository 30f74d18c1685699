package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBusinessDisplayName(t *testing.T) {
	tests := []struct {
		b    Business
		want string
		ok   bool
	}{
		{BusinessBendeckTools, "Bendeck Tools", true},
		{BusinessLusqtoff, "Lüsqtoff", true},
		{Business("acme"), "acme", false},
	}
	for _, tt := range tests {
		if got := tt.b.DisplayName(); got != tt.want {
			t.Errorf("%q.DisplayName() = %q, want %q", tt.b, got, tt.want)
		}
		if tt.b.Valid() != tt.ok {
			t.Errorf("%q.Valid() = %v", tt.b, tt.b.Valid())
		}
	}
}

func TestPaymentMethodValid(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentCash, PaymentCard, PaymentTransfer, PaymentAccount} {
		if !m.Valid() {
			t.Errorf("%q should be valid", m)
		}
	}
	if PaymentMethod("cheque").Valid() || PaymentMethod("").Valid() {
		t.Error("unknown methods must be invalid")
	}
}

func TestProductIsLowStock(t *testing.T) {
	p := Product{Stock: 5, MinStock: 5, SalePrice: decimal.NewFromInt(10)}
	if !p.IsLowStock() {
		t.Fatal("stock equal to min stock is low")
	}
	p.Stock = 6
	if p.IsLowStock() {
		t.Fatal("stock above min stock is not low")
	}
}
