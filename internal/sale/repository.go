package sale

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
)

type CommitOptions struct {
	DecrementStock bool
}

// StockChange is the stock of one product before and after a committed sale.
type StockChange struct {
	ProductID string `json:"product_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Before    int    `json:"before"`
	After     int    `json:"after"`
	MinStock  int    `json:"min_stock"`
}

type CommitResult struct {
	Sale     *model.Sale
	Movement *model.AccountMovement // account sales only
	Stock    []StockChange
	// Replayed is set when the idempotency key already belonged to a committed sale.
	Replayed bool
}

type Repository interface {
	// CommitSale persists the sale header, its items, the stock decrement and, for
	// account sales, the ledger movement and customer balance in one transaction.
	// The store assigns SaleNumber. A reused idempotency key returns
	// the existing sale with Replayed set and writes nothing.
	CommitSale(ctx context.Context, sale *model.Sale, opts CommitOptions) (*CommitResult, error)

	FindByID(ctx context.Context, id string) (*model.Sale, error)
	FindByNumber(ctx context.Context, business model.Business, number int64) (*model.Sale, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*model.Sale, error)
	FindAll(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error)
}
