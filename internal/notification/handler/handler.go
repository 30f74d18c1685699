package handler

import (
	"context"
	"errors"

	salesv1 "github.com/fekuna/omnipos-sales-service/api/sales/v1"
	"github.com/fekuna/omnipos-sales-service/internal/notification"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/grpcx"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

var _ salesv1.NotificationServiceServer = (*NotificationHandler)(nil)

type NotificationHandler struct {
	uc     notification.UseCase
	logger logger.ZapLogger
}

func NewNotificationHandler(uc notification.UseCase, log logger.ZapLogger) *NotificationHandler {
	return &NotificationHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *NotificationHandler) ListNotifications(ctx context.Context, _ *emptypb.Empty) (*salesv1.ListNotificationsResponse, error) {
	business, userID, err := grpcx.Seller(ctx)
	if err != nil {
		return nil, err
	}
	list, err := h.uc.List(ctx, business, userID)
	if err != nil {
		return nil, h.toStatus("failed to list notifications", err)
	}

	out := make([]*salesv1.Notification, len(list.Notifications))
	for i, n := range list.Notifications {
		out[i] = &salesv1.Notification{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			Read:      n.Read,
			CreatedAt: grpcx.Time(n.CreatedAt),
		}
	}
	return &salesv1.ListNotificationsResponse{Notifications: out, UnreadCount: int32(list.UnreadCount)}, nil
}

func (h *NotificationHandler) MarkRead(ctx context.Context, req *salesv1.IDRequest) (*emptypb.Empty, error) {
	business, userID, err := grpcx.Seller(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.uc.MarkRead(ctx, business, userID, req.ID); err != nil {
		return nil, h.toStatus("failed to mark notification read", err)
	}
	return &emptypb.Empty{}, nil
}

func (h *NotificationHandler) MarkAllRead(ctx context.Context, _ *emptypb.Empty) (*salesv1.MarkAllReadResponse, error) {
	business, userID, err := grpcx.Seller(ctx)
	if err != nil {
		return nil, err
	}
	n, err := h.uc.MarkAllRead(ctx, business, userID)
	if err != nil {
		return nil, h.toStatus("failed to mark notifications read", err)
	}
	return &salesv1.MarkAllReadResponse{Updated: n}, nil
}

func (h *NotificationHandler) toStatus(msg string, err error) error {
	if errors.Is(err, notification.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	h.logger.Error(msg, zap.Error(err))
	return status.Error(codes.Internal, err.Error())
}
