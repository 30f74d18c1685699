package report

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/shopspring/decimal"
)

// Repository reads completed sales only.
type Repository interface {
	CompletedSales(ctx context.Context, business model.Business, r Range) ([]SaleRow, error)
	Revenue(ctx context.Context, business model.Business, r Range) (decimal.Decimal, error)
	ProductSales(ctx context.Context, business model.Business, r Range) ([]ProductSales, error)
	Counts(ctx context.Context, business model.Business) (*Counts, error)
}
