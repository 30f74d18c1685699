package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"github.com/fekuna/omnipos-sales-service/internal/product"
	"github.com/fekuna/omnipos-sales-service/internal/report"
	"github.com/fekuna/omnipos-sales-service/internal/sale"
)

func seed(t *testing.T) *Store {
	t.Helper()
	s := New()
	ctx := context.Background()
	for _, p := range []model.Product{
		{BaseModel: model.BaseModel{ID: "p1"}, Business: model.BusinessBendeckTools, Code: "A", Name: "Taladro", SalePrice: money.MustParse("100"), Stock: 1, MinStock: 2, Active: true},
		{BaseModel: model.BaseModel{ID: "p2"}, Business: model.BusinessBendeckTools, Code: "B", Name: "Mechas", SalePrice: money.MustParse("50"), Stock: 10, MinStock: 2, Active: true},
	} {
		p := p
		if err := s.Products().Create(ctx, &p); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func cashSale(id, key string, qty int, at time.Time) *model.Sale {
	return &model.Sale{
		ID:             id,
		Business:       model.BusinessBendeckTools,
		SellerID:       "seller-1",
		Status:         model.SaleStatusCompleted,
		Subtotal:       money.Gross(qty, money.MustParse("100")),
		Discount:       money.Zero,
		Total:          money.Gross(qty, money.MustParse("100")),
		PaymentMethod:  model.PaymentCash,
		IdempotencyKey: key,
		CreatedAt:      at,
		Items: []model.SaleItem{
			{ID: id + "-1", SaleID: id, ProductID: "p1", ProductCode: "A", ProductName: "Taladro", Quantity: qty, UnitPrice: money.MustParse("100"), Total: money.Gross(qty, money.MustParse("100"))},
		},
	}
}

func TestCommitSaleAllowsNegativeStock(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	res, err := s.Sales().CommitSale(ctx, cashSale("s1", "k1", 3, time.Now()), sale.CommitOptions{DecrementStock: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Sale.SaleNumber != 1 || len(res.Stock) != 1 || res.Stock[0].Before != 1 || res.Stock[0].After != -2 {
		t.Fatalf("result = %+v", res)
	}
	p, _ := s.Products().FindByID(ctx, "p1")
	if p.Stock != -2 {
		t.Fatalf("stock = %d, want -2", p.Stock)
	}

	replay, err := s.Sales().CommitSale(ctx, cashSale("s2", "k1", 3, time.Now()), sale.CommitOptions{DecrementStock: true})
	if err != nil || !replay.Replayed || replay.Sale.ID != "s1" {
		t.Fatalf("replay = %+v, %v", replay, err)
	}
	p, _ = s.Products().FindByID(ctx, "p1")
	if p.Stock != -2 {
		t.Fatalf("replay changed stock to %d", p.Stock)
	}

	next, _ := s.Sales().CommitSale(ctx, cashSale("s3", "k3", 1, time.Now()), sale.CommitOptions{})
	if next.Sale.SaleNumber != 2 || next.Stock != nil {
		t.Fatalf("third sale = #%d stock %+v", next.Sale.SaleNumber, next.Stock)
	}
}

func TestCommitAccountSaleWithoutCustomerWritesNothing(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	in := cashSale("s1", "k1", 1, time.Now())
	in.PaymentMethod = model.PaymentAccount
	if _, err := s.Sales().CommitSale(ctx, in, sale.CommitOptions{DecrementStock: true}); !errors.Is(err, sale.ErrAccountNeedsCustomer) {
		t.Fatalf("err = %v", err)
	}
	if got, _ := s.Sales().FindByIdempotencyKey(ctx, "k1"); got != nil {
		t.Fatal("rejected sale was stored")
	}
	p, _ := s.Products().FindByID(ctx, "p1")
	if p.Stock != 1 {
		t.Fatalf("stock = %d, want 1", p.Stock)
	}
}

func TestProductCodesAreUniquePerBusiness(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	dup := &model.Product{BaseModel: model.BaseModel{ID: "p9"}, Business: model.BusinessBendeckTools, Code: "A"}
	if err := s.Products().Create(ctx, dup); !errors.Is(err, product.ErrCodeTaken) {
		t.Fatalf("err = %v, want ErrCodeTaken", err)
	}
	dup.Business = model.BusinessLusqtoff
	if err := s.Products().Create(ctx, dup); err != nil {
		t.Fatalf("same code in the other business: %v", err)
	}
}

func TestCategoryDeleteDetachesProducts(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	_ = s.Categories().Create(ctx, &model.Category{BaseModel: model.BaseModel{ID: "c1"}, Business: model.BusinessBendeckTools, Name: "Eléctricas"})
	p, _ := s.Products().FindByID(ctx, "p1")
	cat := "c1"
	p.CategoryID = &cat
	if err := s.Products().Update(ctx, p); err != nil {
		t.Fatal(err)
	}

	if err := s.Categories().Delete(ctx, "c1"); err != nil {
		t.Fatal(err)
	}
	p, _ = s.Products().FindByID(ctx, "p1")
	if p.CategoryID != nil {
		t.Fatalf("product still points at %s", *p.CategoryID)
	}
}

func TestReportRepositoryAggregates(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)

	_, _ = s.Sales().CommitSale(ctx, cashSale("s1", "k1", 1, day), sale.CommitOptions{})
	_, _ = s.Sales().CommitSale(ctx, cashSale("s2", "k2", 2, day.Add(time.Hour)), sale.CommitOptions{})
	_, _ = s.Sales().CommitSale(ctx, cashSale("s3", "k3", 5, day.AddDate(0, 0, -3)), sale.CommitOptions{})

	rg := report.Range{From: day.Truncate(24 * time.Hour), To: day.Truncate(24*time.Hour).AddDate(0, 0, 1)}
	rows, _ := s.Reports().CompletedSales(ctx, model.BusinessBendeckTools, rg)
	if len(rows) != 2 || rows[0].ID != "s1" {
		t.Fatalf("rows = %+v", rows)
	}
	rev, _ := s.Reports().Revenue(ctx, model.BusinessBendeckTools, rg)
	if !rev.Equal(money.MustParse("300")) {
		t.Fatalf("revenue = %s, want 300", rev)
	}
	ps, _ := s.Reports().ProductSales(ctx, model.BusinessBendeckTools, rg)
	if len(ps) != 1 || ps[0].Quantity != 3 {
		t.Fatalf("product sales = %+v", ps)
	}

	counts, _ := s.Reports().Counts(ctx, model.BusinessBendeckTools)
	if counts.Products != 2 || counts.LowStock != 1 || counts.Customers != 0 {
		t.Fatalf("counts = %+v", counts)
	}
}
