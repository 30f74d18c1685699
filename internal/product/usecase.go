package product

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/product/dto"
)

var (
	ErrNotFound  = errors.New("product not found")
	ErrCodeTaken = errors.New("product code already exists")
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, business model.Business, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, business model.Business, id string) error
	ListLowStock(ctx context.Context, business model.Business, limit int) ([]model.Product, error)
}
