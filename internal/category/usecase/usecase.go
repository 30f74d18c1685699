package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/category"
	"github.com/fekuna/omnipos-sales-service/internal/category/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/validate"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo   category.Repository
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &model.Category{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Business:  input.Business,
		Name:      input.Name,
	}
	if input.Description != "" {
		c.Description = &input.Description
	}

	if err := uc.repo.Create(ctx, c); err != nil {
		uc.logger.Error("failed to create category", zap.String("business", string(input.Business)), zap.Error(err))
		return nil, err
	}
	return c, nil
}

// GetCategory hides rows of other businesses behind ErrNotFound.
func (uc *categoryUseCase) GetCategory(ctx context.Context, business model.Business, id string) (*model.Category, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.Business != business {
		return nil, category.ErrNotFound
	}
	return c, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	c, err := uc.GetCategory(ctx, input.Business, input.ID)
	if err != nil {
		return nil, err
	}

	c.Name = input.Name
	c.Description = nil
	if input.Description != "" {
		c.Description = &input.Description
	}
	c.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, business model.Business, id string) error {
	if _, err := uc.GetCategory(ctx, business, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}
