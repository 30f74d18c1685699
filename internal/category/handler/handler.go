package handler

import (
	"context"
	"errors"

	salesv1 "github.com/fekuna/omnipos-sales-service/api/sales/v1"
	"github.com/fekuna/omnipos-sales-service/internal/category"
	"github.com/fekuna/omnipos-sales-service/internal/category/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/grpcx"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

var _ salesv1.CategoryServiceServer = (*CategoryHandler)(nil)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) CreateCategory(ctx context.Context, req *salesv1.CreateCategoryRequest) (*salesv1.CategoryResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}

	cat, err := h.uc.CreateCategory(ctx, &dto.CreateCategoryInput{
		Business:    business,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, h.toStatus("failed to create category", err)
	}
	return &salesv1.CategoryResponse{Category: mapModelToProto(cat)}, nil
}

func (h *CategoryHandler) GetCategory(ctx context.Context, req *salesv1.IDRequest) (*salesv1.CategoryResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	cat, err := h.uc.GetCategory(ctx, business, req.ID)
	if err != nil {
		return nil, h.toStatus("failed to get category", err)
	}
	return &salesv1.CategoryResponse{Category: mapModelToProto(cat)}, nil
}

func (h *CategoryHandler) ListCategories(ctx context.Context, req *salesv1.ListCategoriesRequest) (*salesv1.ListCategoriesResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}

	cats, total, err := h.uc.ListCategories(ctx, &dto.CategoryFilters{
		Business:    business,
		SearchQuery: req.Query,
		Page:        int(req.Page.Page),
		PageSize:    int(req.PageSize),
	})
	if err != nil {
		return nil, h.toStatus("failed to list categories", err)
	}

	pbCats := make([]*salesv1.Category, len(cats))
	for i := range cats {
		pbCats[i] = mapModelToProto(&cats[i])
	}
	return &salesv1.ListCategoriesResponse{
		Categories: pbCats,
		Total:      int32(total),
		Page:       req.Page,
	}, nil
}

func (h *CategoryHandler) UpdateCategory(ctx context.Context, req *salesv1.UpdateCategoryRequest) (*salesv1.CategoryResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}

	cat, err := h.uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{
		ID:          req.ID,
		Business:    business,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, h.toStatus("failed to update category", err)
	}
	return &salesv1.CategoryResponse{Category: mapModelToProto(cat)}, nil
}

func (h *CategoryHandler) DeleteCategory(ctx context.Context, req *salesv1.IDRequest) (*emptypb.Empty, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.uc.DeleteCategory(ctx, business, req.ID); err != nil {
		return nil, h.toStatus("failed to delete category", err)
	}
	return &emptypb.Empty{}, nil
}

func (h *CategoryHandler) toStatus(msg string, err error) error {
	if st, ok := grpcx.InvalidArgument(err); ok {
		return st
	}
	if errors.Is(err, category.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	h.logger.Error(msg, zap.Error(err))
	return status.Error(codes.Internal, err.Error())
}

func mapModelToProto(c *model.Category) *salesv1.Category {
	return &salesv1.Category{
		ID:          c.ID,
		Business:    string(c.Business),
		Name:        c.Name,
		Description: grpcx.Deref(c.Description),
		CreatedAt:   grpcx.Time(c.CreatedAt),
		UpdatedAt:   grpcx.Time(c.UpdatedAt),
	}
}
