package handler

import (
	"context"
	"errors"
	"time"

	salesv1 "github.com/fekuna/omnipos-sales-service/api/sales/v1"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/grpcx"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var _ salesv1.InventoryServiceServer = (*InventoryHandler)(nil)

type InventoryHandler struct {
	uc     inventory.UseCase
	loc    *time.Location
	logger logger.ZapLogger
}

// NewInventoryHandler reads date-only filters as days in loc.
func NewInventoryHandler(uc inventory.UseCase, loc *time.Location, log logger.ZapLogger) *InventoryHandler {
	if loc == nil {
		loc = time.Local
	}
	return &InventoryHandler{
		uc:     uc,
		loc:    loc,
		logger: log,
	}
}

func (h *InventoryHandler) AdjustStock(ctx context.Context, req *salesv1.AdjustStockRequest) (*salesv1.StockMovementResponse, error) {
	business, userID, err := grpcx.Seller(ctx)
	if err != nil {
		return nil, err
	}

	mv, err := h.uc.AdjustStock(ctx, &dto.AdjustStockInput{
		Business:       business,
		ProductID:      req.ProductID,
		QuantityChange: int(req.QuantityChange),
		Reason:         req.Reason,
		UserID:         userID,
	})
	if err != nil {
		return nil, h.toStatus("failed to adjust stock", err)
	}
	return &salesv1.StockMovementResponse{Movement: mapMovementToProto(mv)}, nil
}

func (h *InventoryHandler) ListStockMovements(ctx context.Context, req *salesv1.ListStockMovementsRequest) (*salesv1.ListStockMovementsResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	from, err := grpcx.Date("from", req.From, h.loc)
	if err != nil {
		return nil, err
	}
	to, err := grpcx.DateEnd("to", req.To, h.loc)
	if err != nil {
		return nil, err
	}

	movements, total, err := h.uc.ListMovements(ctx, &dto.MovementFilters{
		Business:     business,
		ProductID:    req.ProductID,
		SaleID:       req.SaleID,
		MovementType: req.MovementType,
		StartDate:    from,
		EndDate:      to,
		Page:         int(req.Page.Page),
		PageSize:     int(req.PageSize),
	})
	if err != nil {
		return nil, h.toStatus("failed to list stock movements", err)
	}

	out := make([]*salesv1.StockMovement, len(movements))
	for i := range movements {
		out[i] = mapMovementToProto(&movements[i])
	}
	return &salesv1.ListStockMovementsResponse{
		Movements: out,
		Total:     int32(total),
		Page:      req.Page,
	}, nil
}

func (h *InventoryHandler) toStatus(msg string, err error) error {
	if st, ok := grpcx.InvalidArgument(err); ok {
		return st
	}
	switch {
	case errors.Is(err, inventory.ErrProductNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, inventory.ErrZeroAdjustment):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, inventory.ErrInsufficientStock):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, inventory.ErrBusy):
		return status.Error(codes.Unavailable, err.Error())
	}
	h.logger.Error(msg, zap.Error(err))
	return status.Error(codes.Internal, err.Error())
}

func mapMovementToProto(m *model.StockMovement) *salesv1.StockMovement {
	return &salesv1.StockMovement{
		ID:             m.ID,
		ProductID:      m.ProductID,
		SaleID:         grpcx.Deref(m.SaleID),
		MovementType:   m.MovementType,
		QuantityChange: int32(m.QuantityChange),
		QuantityBefore: int32(m.QuantityBefore),
		QuantityAfter:  int32(m.QuantityAfter),
		Notes:          m.Notes,
		CreatedBy:      grpcx.Deref(m.CreatedBy),
		CreatedAt:      grpcx.Time(m.CreatedAt),
	}
}
