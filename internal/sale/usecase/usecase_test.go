package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/account"
	"github.com/fekuna/omnipos-sales-service/internal/cart"
	"github.com/fekuna/omnipos-sales-service/internal/memstore"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-sales-service/internal/sale"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
	"github.com/fekuna/omnipos-sales-service/internal/sale/usecase"
	"github.com/shopspring/decimal"
)

const business = model.BusinessBendeckTools

func dec(s string) decimal.Decimal { return money.MustParse(s) }

type recordingPublisher struct {
	mu     sync.Mutex
	events []*broker.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, ev *broker.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

// countingRepository counts the calls that reach persistence.
type countingRepository struct {
	sale.Repository
	mu      sync.Mutex
	lookups int
	commits int
	fail    error
}

func (r *countingRepository) FindByIdempotencyKey(ctx context.Context, key string) (*model.Sale, error) {
	r.mu.Lock()
	r.lookups++
	r.mu.Unlock()
	return r.Repository.FindByIdempotencyKey(ctx, key)
}

func (r *countingRepository) CommitSale(ctx context.Context, s *model.Sale, opts sale.CommitOptions) (*sale.CommitResult, error) {
	r.mu.Lock()
	r.commits++
	r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	return r.Repository.CommitSale(ctx, s, opts)
}

type fixture struct {
	store    *memstore.Store
	repo     *countingRepository
	events   *recordingPublisher
	uc       sale.UseCase
	customer model.Customer
	drill    model.Product
	bits     model.Product
}

func newFixture(t *testing.T, balance string) *fixture {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	store := memstore.New()

	f := &fixture{
		store:  store,
		repo:   &countingRepository{Repository: store.Sales()},
		events: &recordingPublisher{},
		customer: model.Customer{
			BaseModel:      model.BaseModel{ID: "cust-1", CreatedAt: now, UpdatedAt: now},
			Business:       business,
			Code:           "C001",
			Name:           "Ferretería Norte",
			Active:         true,
			CreditLimit:    dec("5000"),
			CurrentBalance: dec(balance),
		},
		drill: model.Product{
			BaseModel: model.BaseModel{ID: "prod-a", CreatedAt: now, UpdatedAt: now},
			Business:  business,
			Code:      "A",
			Name:      "Taladro",
			SalePrice: dec("100"),
			Stock:     10,
			MinStock:  8,
			Active:    true,
		},
		bits: model.Product{
			BaseModel: model.BaseModel{ID: "prod-b", CreatedAt: now, UpdatedAt: now},
			Business:  business,
			Code:      "B",
			Name:      "Mechas",
			SalePrice: dec("50"),
			Stock:     5,
			Active:    true,
		},
	}
	for _, p := range []model.Product{f.drill, f.bits} {
		p := p
		if err := store.Products().Create(ctx, &p); err != nil {
			t.Fatal(err)
		}
	}
	c := f.customer
	if err := store.Customers().Create(ctx, &c); err != nil {
		t.Fatal(err)
	}

	f.uc = usecase.NewSaleUseCase(f.repo, store.Carts(), cache.NewLocalLocker(), f.events,
		usecase.Options{DecrementStock: true, CreditWarningRatio: 0.8}, logger.NewNop())
	return f
}

func ref(p model.Product) cart.ProductRef {
	return cart.ProductRef{ID: p.ID, Code: p.Code, Name: p.Name, SalePrice: p.SalePrice, Stock: p.Stock}
}

func (f *fixture) customerRef() *cart.CustomerRef {
	return &cart.CustomerRef{
		ID:             f.customer.ID,
		Code:           f.customer.Code,
		Name:           f.customer.Name,
		CurrentBalance: f.customer.CurrentBalance,
		CreditLimit:    f.customer.CreditLimit,
	}
}

func (f *fixture) accountCart(t *testing.T, p cart.ProductRef, qty int) *cart.Cart {
	t.Helper()
	c := cart.New()
	c.AddItem(p, qty)
	c.SetCustomer(f.customerRef())
	if err := c.SetPaymentMethod(model.PaymentAccount); err != nil {
		t.Fatal(err)
	}
	return c
}

func cashCart(t *testing.T, lines ...cart.ProductRef) *cart.Cart {
	t.Helper()
	c := cart.New()
	for _, p := range lines {
		c.AddItem(p, 1)
	}
	if err := c.SetPaymentMethod(model.PaymentCash); err != nil {
		t.Fatal(err)
	}
	return c
}

func input(c *cart.Cart, key string) *dto.CheckoutInput {
	return &dto.CheckoutInput{
		Business:       business,
		SellerID:       "seller-1",
		SellerName:     "Ana",
		Cart:           c,
		IdempotencyKey: key,
	}
}

func TestCheckoutAccountSaleAppendsMovement(t *testing.T) {
	f := newFixture(t, "1000")
	ctx := context.Background()

	p := ref(f.drill)
	p.SalePrice = dec("250")
	res, err := f.uc.Checkout(ctx, input(f.accountCart(t, p, 1), "k1"))
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.Sale.SaleNumber != 1 || !res.Sale.Total.Equal(dec("250")) {
		t.Fatalf("sale = #%d total %s", res.Sale.SaleNumber, res.Sale.Total)
	}

	history, _ := f.store.Accounts().History(ctx, f.customer.ID)
	if len(history) != 1 {
		t.Fatalf("got %d movements, want 1", len(history))
	}
	m := history[0]
	if m.Type != model.MovementSale || !m.Amount.Equal(dec("250")) || !m.BalanceAfter.Equal(dec("1250")) {
		t.Errorf("movement = %s %s -> %s", m.Type, m.Amount, m.BalanceAfter)
	}
	if m.SaleID == nil || *m.SaleID != res.Sale.ID || m.Description != "Venta #1" {
		t.Errorf("movement link = %v %q", m.SaleID, m.Description)
	}

	cu, _ := f.store.Customers().FindByID(ctx, f.customer.ID)
	if !cu.CurrentBalance.Equal(dec("1250")) {
		t.Errorf("balance = %s, want 1250", cu.CurrentBalance)
	}
	if res.Receipt.BalanceAfter == nil || !res.Receipt.BalanceAfter.Equal(dec("1250")) {
		t.Errorf("receipt balance = %v", res.Receipt.BalanceAfter)
	}
	if res.Credit == nil || res.Credit.State != account.CreditOK {
		t.Errorf("credit = %+v", res.Credit)
	}
}

func TestCheckoutCashSaleCreatesNoMovement(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	res, err := f.uc.Checkout(ctx, input(cashCart(t, ref(f.drill), ref(f.bits)), ""))
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.Sale.IdempotencyKey == "" {
		t.Error("a missing idempotency key should be generated")
	}
	if res.Credit != nil || res.Receipt.BalanceAfter != nil {
		t.Error("cash sale should carry no account data")
	}

	history, _ := f.store.Accounts().History(ctx, f.customer.ID)
	if len(history) != 0 {
		t.Fatalf("cash sale wrote %d movements", len(history))
	}

	drill, _ := f.store.Products().FindByID(ctx, f.drill.ID)
	if drill.Stock != 9 {
		t.Errorf("drill stock = %d, want 9", drill.Stock)
	}
}

func TestCheckoutPersistsRoundedTotals(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	c := cart.New()
	c.AddItem(ref(f.drill), 3)
	c.AddItem(ref(f.bits), 1)
	c.UpdateDiscount(f.drill.ID, dec("10"))
	_ = c.SetPaymentMethod(model.PaymentCard)

	res, err := f.uc.Checkout(ctx, input(c, "totals"))
	if err != nil {
		t.Fatal(err)
	}
	stored, _ := f.store.Sales().FindByID(ctx, res.Sale.ID)
	if !stored.Subtotal.Equal(dec("350")) || !stored.Discount.Equal(dec("30")) || !stored.Total.Equal(dec("320")) {
		t.Fatalf("stored = %s - %s = %s, want 350 - 30 = 320", stored.Subtotal, stored.Discount, stored.Total)
	}
	if !stored.Tax.IsZero() || stored.Status != model.SaleStatusCompleted {
		t.Errorf("tax %s status %s", stored.Tax, stored.Status)
	}
	if len(stored.Items) != 2 || !stored.Items[0].Total.Equal(dec("270")) {
		t.Errorf("items = %+v", stored.Items)
	}
}

func TestCheckoutValidationNeverReachesStore(t *testing.T) {
	f := newFixture(t, "0")

	noCustomer := cart.New()
	noCustomer.AddItem(ref(f.drill), 1)
	noCustomer.PaymentMethod = model.PaymentAccount // bypasses the setter on purpose

	noMethod := cart.New()
	noMethod.AddItem(ref(f.drill), 1)

	tests := []struct {
		name  string
		input *dto.CheckoutInput
		want  error
	}{
		{"account without customer", input(noCustomer, ""), sale.ErrAccountNeedsCustomer},
		{"empty cart", input(cart.New(), ""), sale.ErrEmptyCart},
		{"nil cart", input(nil, ""), sale.ErrEmptyCart},
		{"no payment method", input(noMethod, ""), sale.ErrNoPaymentMethod},
		{"unknown payment method", input(&cart.Cart{Items: noMethod.Items, PaymentMethod: "cheque"}, ""), cart.ErrInvalidPaymentMethod},
		{"missing seller", &dto.CheckoutInput{Business: business, Cart: noMethod}, sale.ErrMissingSeller},
		{"unknown business", &dto.CheckoutInput{Business: "acme", SellerID: "s", Cart: noMethod}, sale.ErrInvalidBusiness},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Checkout(context.Background(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if f.repo.lookups != 0 || f.repo.commits != 0 {
		t.Fatalf("persistence reached: %d lookups, %d commits", f.repo.lookups, f.repo.commits)
	}
}

func TestCheckoutFailureIsRetryable(t *testing.T) {
	f := newFixture(t, "0")
	cause := errors.New("connection reset by peer")
	f.repo.fail = cause

	c := cashCart(t, ref(f.drill))
	_, err := f.uc.Checkout(context.Background(), input(c, "k"))
	if !errors.Is(err, sale.ErrCheckoutFailed) || !errors.Is(err, cause) {
		t.Fatalf("err = %v, want ErrCheckoutFailed wrapping the cause", err)
	}
	if c.IsEmpty() {
		t.Fatal("cart must survive a failed checkout")
	}
	if len(f.events.events) != 0 {
		t.Fatal("no event may be published for a failed sale")
	}
}

func TestCheckoutReplaysIdempotencyKey(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	first, err := f.uc.Checkout(ctx, input(f.accountCart(t, ref(f.drill), 1), "same-key"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.uc.Checkout(ctx, input(f.accountCart(t, ref(f.drill), 1), "same-key"))
	if err != nil {
		t.Fatal(err)
	}

	if !second.Replayed || second.Sale.ID != first.Sale.ID || second.Sale.SaleNumber != first.Sale.SaleNumber {
		t.Fatalf("second checkout = %+v, want replay of #%d", second.Sale, first.Sale.SaleNumber)
	}
	sales, total, _ := f.store.Sales().FindAll(ctx, &dto.SaleFilters{Business: business})
	if total != 1 || len(sales) != 1 {
		t.Fatalf("got %d sales, want 1", total)
	}
	history, _ := f.store.Accounts().History(ctx, f.customer.ID)
	if len(history) != 1 {
		t.Fatalf("got %d movements, want 1", len(history))
	}
	if len(f.events.events) != 1 {
		t.Fatalf("got %d events, want 1", len(f.events.events))
	}
}

func TestConcurrentAccountSalesSerialise(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	carts := []*cart.Cart{f.accountCart(t, ref(f.drill), 1), f.accountCart(t, ref(f.drill), 1)}
	var wg sync.WaitGroup
	errs := make(chan error, len(carts))
	for _, c := range carts {
		wg.Add(1)
		go func(c *cart.Cart) {
			defer wg.Done()
			_, err := f.uc.Checkout(ctx, input(c, ""))
			errs <- err
		}(c)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Checkout: %v", err)
		}
	}

	cu, _ := f.store.Customers().FindByID(ctx, f.customer.ID)
	if !cu.CurrentBalance.Equal(dec("200")) {
		t.Fatalf("balance = %s, want 200", cu.CurrentBalance)
	}
	history, _ := f.store.Accounts().History(ctx, f.customer.ID)
	if len(history) != 2 {
		t.Fatalf("got %d movements, want 2", len(history))
	}
	if !history[0].BalanceAfter.Equal(dec("100")) || !history[1].BalanceAfter.Equal(dec("200")) {
		t.Fatalf("balance_after = %s, %s; want 100, 200", history[0].BalanceAfter, history[1].BalanceAfter)
	}
}

func TestCheckoutPublishesSaleCompleted(t *testing.T) {
	f := newFixture(t, "0")
	f.events.err = errors.New("broker down")

	res, err := f.uc.Checkout(context.Background(), input(cashCart(t, ref(f.drill)), ""))
	if err != nil {
		t.Fatalf("a broker failure must not fail the sale: %v", err)
	}
	if len(f.events.events) != 1 || f.events.events[0].EventType != broker.EventSaleCompleted {
		t.Fatalf("events = %+v", f.events.events)
	}

	var payload struct {
		SaleNumber int64 `json:"sale_number"`
		Stock      []struct {
			ProductID string `json:"product_id"`
			After     int    `json:"after"`
			MinStock  int    `json:"min_stock"`
		} `json:"stock"`
	}
	if err := json.Unmarshal(f.events.events[0].Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.SaleNumber != res.Sale.SaleNumber || len(payload.Stock) != 1 || payload.Stock[0].After != 9 {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestCheckoutSessionClearsCart(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()
	carts := f.store.Carts()

	if err := carts.Save(ctx, business, "seller-1", cashCart(t, ref(f.bits))); err != nil {
		t.Fatal(err)
	}
	res, err := f.uc.CheckoutSession(ctx, &dto.SessionCheckoutInput{Business: business, SellerID: "seller-1", SellerName: "Ana"})
	if err != nil {
		t.Fatalf("CheckoutSession: %v", err)
	}
	if !res.CartCleared {
		t.Error("expected the session cart to be cleared")
	}
	if c, _ := carts.Get(ctx, business, "seller-1"); c != nil {
		t.Fatalf("cart still stored: %+v", c)
	}

	if _, err := f.uc.CheckoutSession(ctx, &dto.SessionCheckoutInput{Business: business, SellerID: "seller-1"}); !errors.Is(err, sale.ErrEmptyCart) {
		t.Fatalf("second checkout err = %v, want ErrEmptyCart", err)
	}
}

func TestCheckoutSessionKeepsCartOnFailure(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()
	f.repo.fail = errors.New("deadlock detected")

	if err := f.store.Carts().Save(ctx, business, "seller-1", cashCart(t, ref(f.bits))); err != nil {
		t.Fatal(err)
	}
	if _, err := f.uc.CheckoutSession(ctx, &dto.SessionCheckoutInput{Business: business, SellerID: "seller-1"}); !errors.Is(err, sale.ErrCheckoutFailed) {
		t.Fatalf("err = %v", err)
	}
	c, _ := f.store.Carts().Get(ctx, business, "seller-1")
	if c == nil || c.IsEmpty() {
		t.Fatal("cart must survive a failed checkout")
	}
}

func TestGetReceiptIsScopedToBusiness(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	res, err := f.uc.Checkout(ctx, input(cashCart(t, ref(f.drill)), ""))
	if err != nil {
		t.Fatal(err)
	}
	r, err := f.uc.GetReceipt(ctx, business, res.Sale.SaleNumber)
	if err != nil || r.SaleNumber != res.Sale.SaleNumber {
		t.Fatalf("GetReceipt = %+v, %v", r, err)
	}
	if _, err := f.uc.GetReceipt(ctx, model.BusinessLusqtoff, res.Sale.SaleNumber); !errors.Is(err, sale.ErrNotFound) {
		t.Fatalf("other business err = %v, want ErrNotFound", err)
	}
	if _, err := f.uc.GetSale(ctx, model.BusinessLusqtoff, res.Sale.ID); !errors.Is(err, sale.ErrNotFound) {
		t.Fatalf("GetSale other business err = %v", err)
	}
}
