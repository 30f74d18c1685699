package notification

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/notification/dto"
)

var ErrNotFound = errors.New("notification not found")

// ListLimit is how many notifications a client sees at once.
const ListLimit = 50

type UseCase interface {
	List(ctx context.Context, business model.Business, userID string) (*dto.NotificationList, error)
	MarkRead(ctx context.Context, business model.Business, userID, id string) error
	MarkAllRead(ctx context.Context, business model.Business, userID string) (int64, error)
	// NotifyLowStock stores one low_stock notification per item at or below its minimum.
	NotifyLowStock(ctx context.Context, business model.Business, items []dto.StockLevel) (int, error)
}
