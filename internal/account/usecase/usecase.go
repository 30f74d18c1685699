package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/account"
	"github.com/fekuna/omnipos-sales-service/internal/account/dto"
	"github.com/fekuna/omnipos-sales-service/internal/customer"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/validate"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const lockTTL = 10 * time.Second

var tracer = otel.Tracer("github.com/fekuna/omnipos-sales-service/internal/account")

type Options struct {
	// CreditWarningRatio is the share of the credit limit where the warning starts.
	CreditWarningRatio float64
}

type accountUseCase struct {
	repo      account.Repository
	customers customer.Repository
	locker    cache.Locker
	publisher broker.Publisher
	opts      Options
	logger    logger.ZapLogger
}

// NewAccountUseCase accepts a nil publisher; movement events are then not emitted.
func NewAccountUseCase(repo account.Repository, customers customer.Repository, locker cache.Locker, publisher broker.Publisher, opts Options, log logger.ZapLogger) account.UseCase {
	if opts.CreditWarningRatio <= 0 {
		opts.CreditWarningRatio = 0.8
	}
	return &accountUseCase{
		repo:      repo,
		customers: customers,
		locker:    locker,
		publisher: publisher,
		opts:      opts,
		logger:    log,
	}
}

func (uc *accountUseCase) RecordPayment(ctx context.Context, input *dto.ManualMovementInput) (*model.AccountMovement, error) {
	return uc.recordManual(ctx, input, model.MovementPayment, account.DefaultPaymentDescription)
}

func (uc *accountUseCase) RecordCharge(ctx context.Context, input *dto.ManualMovementInput) (*model.AccountMovement, error) {
	return uc.recordManual(ctx, input, model.MovementCredit, account.DefaultChargeDescription)
}

func (uc *accountUseCase) recordManual(ctx context.Context, input *dto.ManualMovementInput, kind model.MovementType, defaultDescription string) (*model.AccountMovement, error) {
	ctx, span := tracer.Start(ctx, "account.recordManual", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()
	span.SetAttributes(attribute.String("customer_id", input.CustomerID), attribute.String("type", string(kind)))

	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, account.ErrInvalidAmount
	}
	if _, err := uc.getCustomer(ctx, input.Business, input.CustomerID); err != nil {
		return nil, err
	}

	amount := input.Amount
	if kind == model.MovementPayment {
		amount = amount.Neg()
	}
	description := input.Description
	if description == "" {
		description = defaultDescription
	}

	m := &model.AccountMovement{
		ID:          uuid.New().String(),
		CustomerID:  input.CustomerID,
		Type:        kind,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if input.UserID != "" {
		m.CreatedBy = &input.UserID
	}

	release, err := uc.lock(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := uc.repo.AppendMovement(ctx, m); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append movement")
		uc.logger.Error("failed to append account movement",
			zap.String("customer_id", input.CustomerID),
			zap.String("type", string(kind)),
			zap.Error(err),
		)
		return nil, err
	}

	uc.publish(ctx, input.Business, m)
	return m, nil
}

// lock fences the customer across replicas. The row lock in the repository is what
// guarantees correctness; this keeps replicas from piling up on it.
func (uc *accountUseCase) lock(ctx context.Context, customerID string) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}
	l, err := uc.locker.Obtain(ctx, account.LockKey(customerID), lockTTL)
	if errors.Is(err, cache.ErrLockNotObtained) {
		return nil, account.ErrLockNotObtained
	}
	if err != nil {
		return nil, err
	}
	return func() {
		if err := l.Release(context.Background()); err != nil {
			uc.logger.Warn("failed to release account lock", zap.String("customer_id", customerID), zap.Error(err))
		}
	}, nil
}

func (uc *accountUseCase) publish(ctx context.Context, business model.Business, m *model.AccountMovement) {
	if uc.publisher == nil {
		return
	}
	ev, err := broker.NewEvent(broker.EventAccountMovement, struct {
		Business model.Business `json:"business"`
		*model.AccountMovement
	}{business, m})
	if err != nil {
		return
	}
	if err := uc.publisher.Publish(ctx, m.CustomerID, ev); err != nil {
		uc.logger.Warn("failed to publish account movement", zap.String("movement_id", m.ID), zap.Error(err))
	}
}

func (uc *accountUseCase) getCustomer(ctx context.Context, business model.Business, id string) (*model.Customer, error) {
	c, err := uc.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.Business != business {
		return nil, account.ErrCustomerNotFound
	}
	return c, nil
}

func (uc *accountUseCase) ListMovements(ctx context.Context, business model.Business, filters *dto.MovementFilters) ([]model.AccountMovement, int, error) {
	if _, err := uc.getCustomer(ctx, business, filters.CustomerID); err != nil {
		return nil, 0, err
	}
	return uc.repo.ListMovements(ctx, filters)
}

func (uc *accountUseCase) GetCreditStatus(ctx context.Context, business model.Business, customerID string) (*account.CreditStatus, error) {
	c, err := uc.getCustomer(ctx, business, customerID)
	if err != nil {
		return nil, err
	}
	st := account.EvaluateCredit(c.CurrentBalance, c.CreditLimit, uc.opts.CreditWarningRatio)
	st.CustomerID = c.ID
	return &st, nil
}

func (uc *accountUseCase) VerifyLedger(ctx context.Context, business model.Business, customerID string) (*account.LedgerReport, error) {
	c, err := uc.getCustomer(ctx, business, customerID)
	if err != nil {
		return nil, err
	}
	history, err := uc.repo.History(ctx, customerID)
	if err != nil {
		return nil, err
	}

	rep := account.Replay(history, c.CurrentBalance)
	rep.CustomerID = c.ID
	if !rep.Consistent {
		uc.logger.Warn("account ledger inconsistent",
			zap.String("customer_id", c.ID),
			zap.String("broken_at", rep.BrokenAt),
			zap.String("computed", rep.ComputedBalance.String()),
			zap.String("cached", rep.CachedBalance.String()),
		)
	}
	return &rep, nil
}
