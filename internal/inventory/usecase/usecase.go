package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/validate"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const lockTTL = 5 * time.Second

// StockWatcher is told about every stock change so low stock can be reported.
type StockWatcher interface {
	StockChanged(ctx context.Context, business model.Business, p *model.Product)
}

type inventoryUseCase struct {
	repo    inventory.Repository
	locker  cache.Locker
	cache   *cache.RedisClient
	watcher StockWatcher
	logger  logger.ZapLogger
}

// NewInventoryUseCase accepts nil locker, cache and watcher.
func NewInventoryUseCase(repo inventory.Repository, locker cache.Locker, cache *cache.RedisClient, watcher StockWatcher, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:    repo,
		locker:  locker,
		cache:   cache,
		watcher: watcher,
		logger:  log,
	}
}

func lockKey(business model.Business, productID string) string {
	return fmt.Sprintf("lock:inventory:%s:%s", business, productID)
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if input.QuantityChange == 0 {
		return nil, inventory.ErrZeroAdjustment
	}

	// 0. Acquire Lock
	if uc.locker != nil {
		lock, err := uc.locker.Obtain(ctx, lockKey(input.Business, input.ProductID), lockTTL)
		if errors.Is(err, cache.ErrLockNotObtained) {
			return nil, inventory.ErrBusy
		}
		if err != nil {
			uc.logger.Error("failed to acquire inventory lock", zap.String("product_id", input.ProductID), zap.Error(err))
			return nil, err
		}
		defer lock.Release(context.Background())
	}

	m := &model.StockMovement{
		ID:             uuid.New().String(),
		Business:       input.Business,
		ProductID:      input.ProductID,
		MovementType:   model.StockMovementAdjustment,
		QuantityChange: input.QuantityChange,
		Notes:          input.Reason,
		CreatedAt:      time.Now(),
	}
	if input.UserID != "" {
		m.CreatedBy = &input.UserID
	}

	p, err := uc.repo.AdjustStockWithMovement(ctx, m)
	if err != nil {
		if !errors.Is(err, inventory.ErrInsufficientStock) && !errors.Is(err, inventory.ErrProductNotFound) {
			uc.logger.Error("failed to adjust stock", zap.String("product_id", input.ProductID), zap.Error(err))
		}
		return nil, err
	}

	uc.logger.Info("stock adjusted",
		zap.String("product_id", p.ID),
		zap.Int("before", m.QuantityBefore),
		zap.Int("after", m.QuantityAfter),
	)

	if uc.cache != nil {
		pattern := fmt.Sprintf("products:list:%s:*", input.Business)
		go func() {
			if err := uc.cache.DeletePattern(context.Background(), pattern); err != nil {
				uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
			}
		}()
	}
	if uc.watcher != nil {
		uc.watcher.StockChanged(ctx, input.Business, p)
	}
	return m, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}
