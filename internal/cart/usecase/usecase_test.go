package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-sales-service/internal/cart"
	"github.com/fekuna/omnipos-sales-service/internal/cart/dto"
	"github.com/fekuna/omnipos-sales-service/internal/cart/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/memstore"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
)

var session = dto.Session{Business: model.BusinessBendeckTools, UserID: "seller-1"}

func newCartUseCase(t *testing.T) cart.UseCase {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()

	products := []model.Product{
		{BaseModel: model.BaseModel{ID: "p1"}, Business: model.BusinessBendeckTools, Code: "T1", Name: "Amoladora", SalePrice: money.MustParse("120.50"), Stock: 4, Active: true},
		{BaseModel: model.BaseModel{ID: "p2"}, Business: model.BusinessBendeckTools, Code: "T2", Name: "Sierra", SalePrice: money.MustParse("80"), Active: false},
		{BaseModel: model.BaseModel{ID: "p3"}, Business: model.BusinessLusqtoff, Code: "L1", Name: "Compresor", SalePrice: money.MustParse("900"), Active: true},
	}
	for i := range products {
		if err := store.Products().Create(ctx, &products[i]); err != nil {
			t.Fatal(err)
		}
	}
	customers := []model.Customer{
		{BaseModel: model.BaseModel{ID: "c1"}, Business: model.BusinessBendeckTools, Code: "C1", Name: "Taller Río", Active: true, CreditLimit: money.MustParse("500")},
		{BaseModel: model.BaseModel{ID: "c2"}, Business: model.BusinessBendeckTools, Code: "C2", Name: "Baja", Active: false},
	}
	for i := range customers {
		if err := store.Customers().Create(ctx, &customers[i]); err != nil {
			t.Fatal(err)
		}
	}
	return usecase.NewCartUseCase(store.Carts(), store.Products(), store.Customers(), logger.NewNop())
}

func TestCartSessionRoundTrip(t *testing.T) {
	uc := newCartUseCase(t)
	ctx := context.Background()

	c, err := uc.GetCart(ctx, session)
	if err != nil || !c.IsEmpty() {
		t.Fatalf("fresh cart = %+v, %v", c, err)
	}

	if _, err := uc.AddItem(ctx, session, "p1", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.AddItem(ctx, session, "p1", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.UpdateDiscount(ctx, session, "p1", money.MustParse("10")); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.SetCustomer(ctx, session, "c1"); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.SetPaymentMethod(ctx, session, "account"); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.SetNotes(ctx, session, "entregar el lunes"); err != nil {
		t.Fatal(err)
	}

	c, err = uc.GetCart(ctx, session)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Items) != 1 || c.Items[0].Quantity != 3 {
		t.Fatalf("items = %+v", c.Items)
	}
	if !c.Subtotal().Equal(money.MustParse("361.5")) || !money.Round(c.Total()).Equal(money.MustParse("325.35")) {
		t.Errorf("subtotal %s total %s", c.Subtotal(), c.Total())
	}
	if c.Customer == nil || c.Customer.ID != "c1" || c.PaymentMethod != model.PaymentAccount || c.Notes != "entregar el lunes" {
		t.Errorf("cart = %+v", c)
	}

	// another seller has a separate cart
	other, _ := uc.GetCart(ctx, dto.Session{Business: model.BusinessBendeckTools, UserID: "seller-2"})
	if !other.IsEmpty() {
		t.Fatal("carts leaked across sellers")
	}

	// deselecting the customer drops the account method
	c, _ = uc.SetCustomer(ctx, session, "")
	if c.Customer != nil || c.PaymentMethod != "" {
		t.Errorf("after deselect = %+v", c)
	}

	if _, err := uc.RemoveItem(ctx, session, "p1"); err != nil {
		t.Fatal(err)
	}
	if err := uc.Clear(ctx, session); err != nil {
		t.Fatal(err)
	}
	c, _ = uc.GetCart(ctx, session)
	if !c.IsEmpty() || c.Notes != "" {
		t.Fatalf("cleared cart = %+v", c)
	}
}

func TestCartRejectsInvalidReferences(t *testing.T) {
	uc := newCartUseCase(t)
	ctx := context.Background()

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"unknown product", func() error { _, err := uc.AddItem(ctx, session, "nope", 1); return err }, cart.ErrProductNotFound},
		{"other business product", func() error { _, err := uc.AddItem(ctx, session, "p3", 1); return err }, cart.ErrProductNotFound},
		{"inactive product", func() error { _, err := uc.AddItem(ctx, session, "p2", 1); return err }, cart.ErrProductInactive},
		{"unknown customer", func() error { _, err := uc.SetCustomer(ctx, session, "nope"); return err }, cart.ErrCustomerNotFound},
		{"inactive customer", func() error { _, err := uc.SetCustomer(ctx, session, "c2"); return err }, cart.ErrCustomerInactive},
		{"account without customer", func() error { _, err := uc.SetPaymentMethod(ctx, session, "account"); return err }, cart.ErrAccountNeedsCustomer},
		{"unknown method", func() error { _, err := uc.SetPaymentMethod(ctx, session, "cheque"); return err }, cart.ErrInvalidPaymentMethod},
		{"no seller", func() error { _, err := uc.GetCart(ctx, dto.Session{Business: model.BusinessLusqtoff}); return err }, cart.ErrNoSession},
		{"no business", func() error { return uc.Clear(ctx, dto.Session{UserID: "x"}) }, cart.ErrNoSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	c, _ := uc.GetCart(ctx, session)
	if !c.IsEmpty() || c.PaymentMethod != "" {
		t.Fatalf("rejected calls changed the cart: %+v", c)
	}
}
