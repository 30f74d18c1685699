package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/account"
	"github.com/fekuna/omnipos-sales-service/internal/cart"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-sales-service/internal/sale"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	lockTTL        = 15 * time.Second
	publishTimeout = 3 * time.Second
)

var tracer = otel.Tracer("github.com/fekuna/omnipos-sales-service/internal/sale")

type Options struct {
	DecrementStock     bool
	CreditWarningRatio float64
}

type saleUseCase struct {
	repo      sale.Repository
	sessions  cart.SessionRepository
	locker    cache.Locker
	publisher broker.Publisher
	opts      Options
	logger    logger.ZapLogger
}

// NewSaleUseCase accepts nil sessions, locker and publisher.
func NewSaleUseCase(repo sale.Repository, sessions cart.SessionRepository, locker cache.Locker, publisher broker.Publisher, opts Options, log logger.ZapLogger) sale.UseCase {
	if opts.CreditWarningRatio <= 0 {
		opts.CreditWarningRatio = 0.8
	}
	return &saleUseCase{
		repo:      repo,
		sessions:  sessions,
		locker:    locker,
		publisher: publisher,
		opts:      opts,
		logger:    log,
	}
}

// validate runs before any persistence call.
func validate(input *dto.CheckoutInput) error {
	if !input.Business.Valid() {
		return sale.ErrInvalidBusiness
	}
	if input.SellerID == "" {
		return sale.ErrMissingSeller
	}
	if input.Cart == nil || input.Cart.IsEmpty() {
		return sale.ErrEmptyCart
	}
	if input.Cart.PaymentMethod == "" {
		return sale.ErrNoPaymentMethod
	}
	if !input.Cart.PaymentMethod.Valid() {
		return cart.ErrInvalidPaymentMethod
	}
	if input.Cart.PaymentMethod == model.PaymentAccount && input.Cart.Customer == nil {
		return sale.ErrAccountNeedsCustomer
	}
	return nil
}

func (uc *saleUseCase) Checkout(ctx context.Context, input *dto.CheckoutInput) (*sale.CheckoutResult, error) {
	ctx, span := tracer.Start(ctx, "sale.Checkout",
		trace.WithAttributes(attribute.String("business", string(input.Business))))
	defer span.End()

	if err := validate(input); err != nil {
		return nil, err
	}

	snapshot := input.Cart.Clone()
	key := input.IdempotencyKey
	if key == "" {
		key = uuid.New().String()
	}
	span.SetAttributes(
		attribute.String("business", string(input.Business)),
		attribute.String("payment_method", string(snapshot.PaymentMethod)),
		attribute.Int("lines", len(snapshot.Items)),
	)

	if existing, err := uc.repo.FindByIdempotencyKey(ctx, key); err != nil {
		uc.logger.Error("idempotency lookup failed", zap.String("idempotency_key", key), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", sale.ErrCheckoutFailed, err)
	} else if existing != nil {
		return uc.replayResult(existing), nil
	}

	s := buildSale(input, snapshot, key)

	if s.PaymentMethod == model.PaymentAccount && uc.locker != nil {
		lock, err := uc.locker.Obtain(ctx, account.LockKey(*s.CustomerID), lockTTL)
		if errors.Is(err, cache.ErrLockNotObtained) {
			return nil, account.ErrLockNotObtained
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", sale.ErrCheckoutFailed, err)
		}
		defer func() {
			if err := lock.Release(context.Background()); err != nil {
				uc.logger.Warn("failed to release account lock", zap.String("customer_id", *s.CustomerID), zap.Error(err))
			}
		}()
	}

	res, err := uc.repo.CommitSale(ctx, s, sale.CommitOptions{DecrementStock: uc.opts.DecrementStock})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit sale")
		uc.logger.Error("failed to commit sale",
			zap.String("business", string(s.Business)),
			zap.String("seller_id", s.SellerID),
			zap.String("idempotency_key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", sale.ErrCheckoutFailed, err)
	}
	if res.Replayed {
		return uc.replayResult(res.Sale), nil
	}

	span.SetAttributes(attribute.Int64("sale_number", res.Sale.SaleNumber))
	uc.logger.Info("sale completed",
		zap.Int64("sale_number", res.Sale.SaleNumber),
		zap.String("business", string(res.Sale.Business)),
		zap.String("total", res.Sale.Total.String()),
		zap.String("payment_method", string(res.Sale.PaymentMethod)),
	)

	result := &sale.CheckoutResult{
		Sale:    res.Sale,
		Receipt: sale.BuildReceipt(res.Sale),
	}
	if res.Movement != nil {
		balance := res.Movement.BalanceAfter
		result.Receipt.BalanceAfter = &balance
		st := account.EvaluateCredit(balance, snapshot.Customer.CreditLimit, uc.opts.CreditWarningRatio)
		st.CustomerID = snapshot.Customer.ID
		result.Credit = &st
		if st.State == account.CreditWarning || st.State == account.CreditExceeded {
			uc.logger.Warn("customer credit limit reached",
				zap.String("customer_id", st.CustomerID),
				zap.String("state", string(st.State)),
				zap.String("balance", st.Balance.String()),
			)
		}
	}

	uc.publishCompleted(ctx, res)
	return result, nil
}

func (uc *saleUseCase) CheckoutSession(ctx context.Context, input *dto.SessionCheckoutInput) (*sale.CheckoutResult, error) {
	if uc.sessions == nil {
		return nil, sale.ErrNoSessions
	}
	if !input.Business.Valid() {
		return nil, sale.ErrInvalidBusiness
	}
	if input.SellerID == "" {
		return nil, sale.ErrMissingSeller
	}

	c, err := uc.sessions.Get(ctx, input.Business, input.SellerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sale.ErrCheckoutFailed, err)
	}
	if c == nil {
		return nil, sale.ErrEmptyCart
	}

	res, err := uc.Checkout(ctx, &dto.CheckoutInput{
		Business:       input.Business,
		SellerID:       input.SellerID,
		SellerName:     input.SellerName,
		Cart:           c,
		IdempotencyKey: input.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.sessions.Delete(ctx, input.Business, input.SellerID); err != nil {
		uc.logger.Warn("sale committed but cart was not cleared",
			zap.Int64("sale_number", res.Sale.SaleNumber),
			zap.String("seller_id", input.SellerID),
			zap.Error(err),
		)
		return res, nil
	}
	res.CartCleared = true
	return res, nil
}

// buildSale turns the snapshot into the sale to persist. Totals are rounded once and
// total is derived from the rounded parts so subtotal - discount = total holds on the row.
func buildSale(input *dto.CheckoutInput, snapshot *cart.Cart, key string) *model.Sale {
	now := time.Now()
	subtotal := money.Round(snapshot.Subtotal())
	discount := money.Round(snapshot.TotalDiscount())

	s := &model.Sale{
		ID:             uuid.New().String(),
		Business:       input.Business,
		SellerID:       input.SellerID,
		SellerName:     input.SellerName,
		Status:         model.SaleStatusCompleted,
		Subtotal:       subtotal,
		Discount:       discount,
		Tax:            money.Zero,
		Total:          subtotal.Sub(discount),
		PaymentMethod:  snapshot.PaymentMethod,
		IdempotencyKey: key,
		CreatedAt:      now,
		Items:          make([]model.SaleItem, 0, len(snapshot.Items)),
	}
	if snapshot.Customer != nil {
		id, name := snapshot.Customer.ID, snapshot.Customer.Name
		s.CustomerID = &id
		s.CustomerName = &name
	}
	if snapshot.Notes != "" {
		notes := snapshot.Notes
		s.Notes = &notes
	}
	for _, l := range snapshot.Items {
		s.Items = append(s.Items, model.SaleItem{
			ID:          uuid.New().String(),
			SaleID:      s.ID,
			ProductID:   l.Product.ID,
			ProductCode: l.Product.Code,
			ProductName: l.Product.Name,
			Quantity:    l.Quantity,
			UnitPrice:   money.Round(l.UnitPrice),
			Discount:    l.Discount,
			Total:       money.Round(l.Total),
			CreatedAt:   now,
		})
	}
	return s
}

func (uc *saleUseCase) replayResult(s *model.Sale) *sale.CheckoutResult {
	uc.logger.Info("checkout replayed", zap.Int64("sale_number", s.SaleNumber), zap.String("idempotency_key", s.IdempotencyKey))
	return &sale.CheckoutResult{
		Sale:     s,
		Receipt:  sale.BuildReceipt(s),
		Replayed: true,
	}
}

type saleCompletedPayload struct {
	SaleID        string              `json:"sale_id"`
	SaleNumber    int64               `json:"sale_number"`
	Business      model.Business      `json:"business"`
	CustomerID    *string             `json:"customer_id,omitempty"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Total         string              `json:"total"`
	Items         []model.SaleItem    `json:"items"`
	Stock         []sale.StockChange  `json:"stock"`
}

// publishCompleted is best-effort: the sale is already committed.
func (uc *saleUseCase) publishCompleted(ctx context.Context, res *sale.CommitResult) {
	if uc.publisher == nil {
		return
	}
	s := res.Sale
	ev, err := broker.NewEvent(broker.EventSaleCompleted, saleCompletedPayload{
		SaleID:        s.ID,
		SaleNumber:    s.SaleNumber,
		Business:      s.Business,
		CustomerID:    s.CustomerID,
		PaymentMethod: s.PaymentMethod,
		Total:         s.Total.String(),
		Items:         s.Items,
		Stock:         res.Stock,
	})
	if err != nil {
		uc.logger.Error("failed to build sale event", zap.Error(err))
		return
	}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := uc.publisher.Publish(pctx, string(s.Business), ev); err != nil {
		uc.logger.Warn("failed to publish sale event", zap.Int64("sale_number", s.SaleNumber), zap.Error(err))
	}
}

func (uc *saleUseCase) GetSale(ctx context.Context, business model.Business, id string) (*model.Sale, error) {
	s, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Business != business {
		return nil, sale.ErrNotFound
	}
	return s, nil
}

func (uc *saleUseCase) ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *saleUseCase) GetReceipt(ctx context.Context, business model.Business, number int64) (*sale.Receipt, error) {
	s, err := uc.repo.FindByNumber(ctx, business, number)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, sale.ErrNotFound
	}
	return sale.BuildReceipt(s), nil
}
