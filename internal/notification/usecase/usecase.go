package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/notification"
	"github.com/fekuna/omnipos-sales-service/internal/notification/dto"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type notificationUseCase struct {
	repo   notification.Repository
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewNotificationUseCase(repo notification.Repository, tr *i18n.Translator, log logger.ZapLogger) notification.UseCase {
	return &notificationUseCase{
		repo:   repo,
		tr:     tr,
		logger: log,
	}
}

func (uc *notificationUseCase) List(ctx context.Context, business model.Business, userID string) (*dto.NotificationList, error) {
	items, err := uc.repo.List(ctx, business, userID, notification.ListLimit)
	if err != nil {
		return nil, err
	}
	unread, err := uc.repo.CountUnread(ctx, business, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Notification{}
	}
	return &dto.NotificationList{Notifications: items, UnreadCount: unread}, nil
}

func (uc *notificationUseCase) MarkRead(ctx context.Context, business model.Business, userID, id string) error {
	ok, err := uc.repo.MarkRead(ctx, business, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return notification.ErrNotFound
	}
	return nil
}

func (uc *notificationUseCase) MarkAllRead(ctx context.Context, business model.Business, userID string) (int64, error) {
	return uc.repo.MarkAllRead(ctx, business, userID)
}

func (uc *notificationUseCase) NotifyLowStock(ctx context.Context, business model.Business, items []dto.StockLevel) (int, error) {
	now := time.Now()
	b := business

	var batch []model.Notification
	for _, it := range items {
		if !it.IsLow() {
			continue
		}
		batch = append(batch, model.Notification{
			ID:       uuid.New().String(),
			Business: &b,
			Title:    uc.tr.T("notification.low_stock.title", nil),
			Message: uc.tr.T("notification.low_stock.message", map[string]interface{}{
				"Name":     it.Name,
				"Code":     it.Code,
				"Stock":    it.Stock,
				"MinStock": it.MinStock,
			}),
			Type:      model.NotificationLowStock,
			CreatedAt: now,
		})
	}
	if len(batch) == 0 {
		return 0, nil
	}

	if err := uc.repo.Create(ctx, batch); err != nil {
		uc.logger.Error("failed to store low stock notifications", zap.String("business", string(business)), zap.Error(err))
		return 0, err
	}
	uc.logger.Info("low stock notifications stored", zap.String("business", string(business)), zap.Int("count", len(batch)))
	return len(batch), nil
}
