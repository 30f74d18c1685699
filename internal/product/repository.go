package product

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error

	IsCodeUnique(ctx context.Context, business model.Business, code, excludeID string) (bool, error)

	// ListLowStock returns active products with stock <= min_stock, lowest stock first.
	ListLowStock(ctx context.Context, business model.Business, limit int) ([]model.Product, error)
}
