package inventory

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrZeroAdjustment    = errors.New("quantity change must not be zero")
	ErrBusy              = errors.New("system busy, please try again later")
)

type UseCase interface {
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
