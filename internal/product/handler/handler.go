package handler

import (
	"context"
	"errors"

	salesv1 "github.com/fekuna/omnipos-sales-service/api/sales/v1"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/grpcx"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-sales-service/internal/product"
	"github.com/fekuna/omnipos-sales-service/internal/product/dto"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

var _ salesv1.ProductServiceServer = (*ProductHandler)(nil)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) CreateProduct(ctx context.Context, req *salesv1.CreateProductRequest) (*salesv1.ProductResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	purchase, err := grpcx.Decimal("purchase_price", req.PurchasePrice)
	if err != nil {
		return nil, err
	}
	sale, err := grpcx.Decimal("sale_price", req.SalePrice)
	if err != nil {
		return nil, err
	}

	p, err := h.uc.CreateProduct(ctx, &dto.CreateProductInput{
		Business:      business,
		CategoryID:    req.CategoryID,
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		PurchasePrice: purchase,
		SalePrice:     sale,
		Stock:         int(req.Stock),
		MinStock:      int(req.MinStock),
	})
	if err != nil {
		return nil, h.toStatus("failed to create product", err)
	}
	return &salesv1.ProductResponse{Product: mapProductToProto(p)}, nil
}

func (h *ProductHandler) GetProduct(ctx context.Context, req *salesv1.IDRequest) (*salesv1.ProductResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	p, err := h.uc.GetProduct(ctx, business, req.ID)
	if err != nil {
		return nil, h.toStatus("failed to get product", err)
	}
	return &salesv1.ProductResponse{Product: mapProductToProto(p)}, nil
}

func (h *ProductHandler) ListProducts(ctx context.Context, req *salesv1.ListProductsRequest) (*salesv1.ListProductsResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}

	filters := &dto.ProductFilters{
		Business:    business,
		CategoryID:  req.CategoryID,
		InStock:     req.InStock,
		SearchQuery: req.Query,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
		Page:        int(req.Page.Page),
		PageSize:    int(req.PageSize),
	}
	if req.OnlyActive {
		active := true
		filters.Active = &active
	}

	products, count, err := h.uc.ListProducts(ctx, filters)
	if err != nil {
		return nil, h.toStatus("failed to list products", err)
	}

	protos := make([]*salesv1.Product, len(products))
	for i := range products {
		protos[i] = mapProductToProto(&products[i])
	}
	return &salesv1.ListProductsResponse{
		Products: protos,
		Total:    int32(count),
		Page:     req.Page,
	}, nil
}

func (h *ProductHandler) UpdateProduct(ctx context.Context, req *salesv1.UpdateProductRequest) (*salesv1.ProductResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	purchase, err := grpcx.Decimal("purchase_price", req.PurchasePrice)
	if err != nil {
		return nil, err
	}
	sale, err := grpcx.Decimal("sale_price", req.SalePrice)
	if err != nil {
		return nil, err
	}

	p, err := h.uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID:            req.ID,
		Business:      business,
		CategoryID:    req.CategoryID,
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		PurchasePrice: purchase,
		SalePrice:     sale,
		MinStock:      int(req.MinStock),
		Active:        req.Active,
	})
	if err != nil {
		return nil, h.toStatus("failed to update product", err)
	}
	return &salesv1.ProductResponse{Product: mapProductToProto(p)}, nil
}

func (h *ProductHandler) DeleteProduct(ctx context.Context, req *salesv1.IDRequest) (*emptypb.Empty, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.uc.DeleteProduct(ctx, business, req.ID); err != nil {
		return nil, h.toStatus("failed to delete product", err)
	}
	return &emptypb.Empty{}, nil
}

func (h *ProductHandler) ListLowStock(ctx context.Context, req *salesv1.ListLowStockRequest) (*salesv1.ListProductsResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	products, err := h.uc.ListLowStock(ctx, business, int(req.Limit))
	if err != nil {
		return nil, h.toStatus("failed to list low stock", err)
	}

	protos := make([]*salesv1.Product, len(products))
	for i := range products {
		protos[i] = mapProductToProto(&products[i])
	}
	return &salesv1.ListProductsResponse{Products: protos, Total: int32(len(protos))}, nil
}

func (h *ProductHandler) toStatus(msg string, err error) error {
	if st, ok := grpcx.InvalidArgument(err); ok {
		return st
	}
	switch {
	case errors.Is(err, product.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, product.ErrCodeTaken):
		return status.Error(codes.AlreadyExists, err.Error())
	}
	h.logger.Error(msg, zap.Error(err))
	return status.Error(codes.Internal, err.Error())
}

func mapProductToProto(p *model.Product) *salesv1.Product {
	out := &salesv1.Product{
		ID:            p.ID,
		Business:      string(p.Business),
		CategoryID:    grpcx.Deref(p.CategoryID),
		Code:          p.Code,
		Name:          p.Name,
		Description:   grpcx.Deref(p.Description),
		ImageURL:      grpcx.Deref(p.ImageURL),
		PurchasePrice: grpcx.Money(p.PurchasePrice),
		SalePrice:     grpcx.Money(p.SalePrice),
		Stock:         int32(p.Stock),
		MinStock:      int32(p.MinStock),
		Active:        p.Active,
		LowStock:      p.IsLowStock(),
		CreatedAt:     grpcx.Time(p.CreatedAt),
		UpdatedAt:     grpcx.Time(p.UpdatedAt),
	}
	if p.Category != nil {
		out.CategoryName = p.Category.Name
	}
	return out
}
