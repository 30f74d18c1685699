package notification

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
)

// Repository scopes every read to rows visible to the user: the business or global, the user or broadcast.
type Repository interface {
	Create(ctx context.Context, notifications []model.Notification) error
	List(ctx context.Context, business model.Business, userID string, limit int) ([]model.Notification, error)
	CountUnread(ctx context.Context, business model.Business, userID string) (int, error)
	MarkRead(ctx context.Context, business model.Business, userID, id string) (bool, error)
	MarkAllRead(ctx context.Context, business model.Business, userID string) (int64, error)
}
