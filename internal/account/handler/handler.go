package handler

import (
	"context"
	"errors"

	salesv1 "github.com/fekuna/omnipos-sales-service/api/sales/v1"
	"github.com/fekuna/omnipos-sales-service/internal/account"
	"github.com/fekuna/omnipos-sales-service/internal/account/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/grpcx"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var _ salesv1.AccountServiceServer = (*AccountHandler)(nil)

type AccountHandler struct {
	uc     account.UseCase
	logger logger.ZapLogger
}

func NewAccountHandler(uc account.UseCase, log logger.ZapLogger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *AccountHandler) RecordPayment(ctx context.Context, req *salesv1.ManualMovementRequest) (*salesv1.MovementResponse, error) {
	return h.record(ctx, req, h.uc.RecordPayment, "failed to record payment")
}

func (h *AccountHandler) RecordCharge(ctx context.Context, req *salesv1.ManualMovementRequest) (*salesv1.MovementResponse, error) {
	return h.record(ctx, req, h.uc.RecordCharge, "failed to record charge")
}

type recordFunc func(context.Context, *dto.ManualMovementInput) (*model.AccountMovement, error)

func (h *AccountHandler) record(ctx context.Context, req *salesv1.ManualMovementRequest, fn recordFunc, msg string) (*salesv1.MovementResponse, error) {
	business, userID, err := grpcx.Seller(ctx)
	if err != nil {
		return nil, err
	}
	amount, err := grpcx.Decimal("amount", req.Amount)
	if err != nil {
		return nil, err
	}

	mv, err := fn(ctx, &dto.ManualMovementInput{
		Business:    business,
		CustomerID:  req.CustomerID,
		Amount:      amount,
		Description: req.Description,
		UserID:      userID,
	})
	if err != nil {
		return nil, h.toStatus(msg, err)
	}

	resp := &salesv1.MovementResponse{Movement: MapMovement(mv)}
	credit, err := h.uc.GetCreditStatus(ctx, business, req.CustomerID)
	if err != nil {
		// the movement is committed; the credit block is advisory
		h.logger.Warn("credit status unavailable", zap.String("customer_id", req.CustomerID), zap.Error(err))
		return resp, nil
	}
	resp.Credit = MapCredit(credit)
	return resp, nil
}

func (h *AccountHandler) ListMovements(ctx context.Context, req *salesv1.ListMovementsRequest) (*salesv1.ListMovementsResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}

	movements, total, err := h.uc.ListMovements(ctx, business, &dto.MovementFilters{
		CustomerID: req.CustomerID,
		Type:       model.MovementType(req.Type),
		Page:       int(req.Page.Page),
		PageSize:   int(req.PageSize),
	})
	if err != nil {
		return nil, h.toStatus("failed to list movements", err)
	}

	out := make([]*salesv1.AccountMovement, len(movements))
	for i := range movements {
		out[i] = MapMovement(&movements[i])
	}
	return &salesv1.ListMovementsResponse{Movements: out, Total: int32(total), Page: req.Page}, nil
}

func (h *AccountHandler) GetCreditStatus(ctx context.Context, req *salesv1.CustomerRequest) (*salesv1.CreditStatusResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	credit, err := h.uc.GetCreditStatus(ctx, business, req.CustomerID)
	if err != nil {
		return nil, h.toStatus("failed to get credit status", err)
	}
	return &salesv1.CreditStatusResponse{Credit: MapCredit(credit)}, nil
}

func (h *AccountHandler) VerifyLedger(ctx context.Context, req *salesv1.CustomerRequest) (*salesv1.VerifyLedgerResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	rep, err := h.uc.VerifyLedger(ctx, business, req.CustomerID)
	if err != nil {
		return nil, h.toStatus("failed to verify ledger", err)
	}
	if !rep.Consistent {
		h.logger.Warn("ledger inconsistent",
			zap.String("customer_id", rep.CustomerID),
			zap.String("broken_at", rep.BrokenAt),
			zap.String("computed", rep.ComputedBalance.String()),
			zap.String("cached", rep.CachedBalance.String()),
		)
	}
	return &salesv1.VerifyLedgerResponse{
		CustomerID:      rep.CustomerID,
		Movements:       int32(rep.Movements),
		ComputedBalance: grpcx.Money(rep.ComputedBalance),
		CachedBalance:   grpcx.Money(rep.CachedBalance),
		Consistent:      rep.Consistent,
		BrokenAt:        rep.BrokenAt,
	}, nil
}

func (h *AccountHandler) toStatus(msg string, err error) error {
	if st, ok := grpcx.InvalidArgument(err); ok {
		return st
	}
	switch {
	case errors.Is(err, account.ErrInvalidAmount):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, account.ErrCustomerNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, account.ErrLockNotObtained):
		return status.Error(codes.Unavailable, err.Error())
	}
	h.logger.Error(msg, zap.Error(err))
	return status.Error(codes.Internal, err.Error())
}

func MapMovement(m *model.AccountMovement) *salesv1.AccountMovement {
	return &salesv1.AccountMovement{
		ID:           m.ID,
		CustomerID:   m.CustomerID,
		SaleID:       grpcx.Deref(m.SaleID),
		Type:         string(m.Type),
		Amount:       grpcx.Money(m.Amount),
		BalanceAfter: grpcx.Money(m.BalanceAfter),
		Description:  m.Description,
		CreatedBy:    grpcx.Deref(m.CreatedBy),
		CreatedAt:    grpcx.Time(m.CreatedAt),
	}
}

// MapCredit is shared with the sale handler, which reports credit after account sales.
func MapCredit(c *account.CreditStatus) *salesv1.CreditStatus {
	if c == nil {
		return nil
	}
	return &salesv1.CreditStatus{
		CustomerID:   c.CustomerID,
		Balance:      grpcx.Money(c.Balance),
		CreditLimit:  grpcx.Money(c.CreditLimit),
		Available:    grpcx.Money(c.Available),
		UsagePercent: c.UsagePercent.String(),
		State:        string(c.State),
	}
}
