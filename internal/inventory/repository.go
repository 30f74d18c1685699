package inventory

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type Repository interface {
	// AdjustStockWithMovement applies movement.QuantityChange to the product under a row lock,
	// fills QuantityBefore/QuantityAfter and logs the movement in the same transaction.
	// It returns ErrInsufficientStock and writes nothing when the result would be negative.
	AdjustStockWithMovement(ctx context.Context, movement *model.StockMovement) (*model.Product, error)

	// Movements / Audit
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
