package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-sales-service/internal/memstore"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/notification"
	"github.com/fekuna/omnipos-sales-service/internal/notification/dto"
	"github.com/fekuna/omnipos-sales-service/internal/notification/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
)

func newNotificationUseCase() (notification.UseCase, *memstore.Store) {
	store := memstore.New()
	tr := i18n.MustNewBundle().Translator("es")
	return usecase.NewNotificationUseCase(store.Notifications(), tr, logger.NewNop()), store
}

func TestNotifyLowStockOnlyLowItems(t *testing.T) {
	uc, _ := newNotificationUseCase()
	ctx := context.Background()

	n, err := uc.NotifyLowStock(ctx, model.BusinessBendeckTools, []dto.StockLevel{
		{ProductID: "p1", Code: "A", Name: "Taladro", Stock: 2, MinStock: 5},
		{ProductID: "p2", Code: "B", Name: "Mechas", Stock: 9, MinStock: 5},
		{ProductID: "p3", Code: "C", Name: "Llave", Stock: 5, MinStock: 5},
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("created %d notifications, want 2", n)
	}

	list, err := uc.List(ctx, model.BusinessBendeckTools, "seller-1")
	if err != nil {
		t.Fatal(err)
	}
	if list.UnreadCount != 2 || len(list.Notifications) != 2 {
		t.Fatalf("list = %+v", list)
	}
	got := list.Notifications[1]
	if got.Title != "Stock bajo" || got.Message != "Taladro (A) tiene 2 unidades (mínimo 5)" || got.Type != model.NotificationLowStock {
		t.Errorf("notification = %q / %q / %s", got.Title, got.Message, got.Type)
	}

	other, _ := uc.List(ctx, model.BusinessLusqtoff, "seller-1")
	if len(other.Notifications) != 0 || other.Notifications == nil {
		t.Errorf("other business sees %d notifications", len(other.Notifications))
	}

	if n, _ := uc.NotifyLowStock(ctx, model.BusinessBendeckTools, []dto.StockLevel{{Stock: 10, MinStock: 1}}); n != 0 {
		t.Errorf("healthy stock created %d notifications", n)
	}
}

func TestMarkRead(t *testing.T) {
	uc, store := newNotificationUseCase()
	ctx := context.Background()

	b := model.BusinessLusqtoff
	owner := "seller-2"
	err := store.Notifications().Create(ctx, []model.Notification{
		{ID: "n1", Business: &b, Title: "a"},
		{ID: "n2", Business: &b, UserID: &owner, Title: "b"},
		{ID: "n3", Title: "global"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := uc.MarkRead(ctx, b, "seller-1", "n2"); !errors.Is(err, notification.ErrNotFound) {
		t.Fatalf("reading another user's notification: err = %v", err)
	}
	if err := uc.MarkRead(ctx, b, "seller-1", "n1"); err != nil {
		t.Fatal(err)
	}

	list, _ := uc.List(ctx, b, "seller-1")
	if list.UnreadCount != 1 || len(list.Notifications) != 2 {
		t.Fatalf("seller-1 list = %+v", list)
	}

	n, err := uc.MarkAllRead(ctx, b, "seller-2")
	if err != nil || n != 2 {
		t.Fatalf("MarkAllRead = %d, %v; want 2", n, err)
	}
	list, _ = uc.List(ctx, b, "seller-2")
	if list.UnreadCount != 0 {
		t.Fatalf("unread = %d after MarkAllRead", list.UnreadCount)
	}
}
