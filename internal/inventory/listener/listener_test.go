package listener

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/notification/dto"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type notifierSpy struct {
	business model.Business
	levels   []dto.StockLevel
	calls    int
}

func (s *notifierSpy) List(context.Context, model.Business, string) (*dto.NotificationList, error) {
	return nil, nil
}

func (s *notifierSpy) MarkRead(context.Context, model.Business, string, string) error { return nil }

func (s *notifierSpy) MarkAllRead(context.Context, model.Business, string) (int64, error) {
	return 0, nil
}

func (s *notifierSpy) NotifyLowStock(_ context.Context, business model.Business, levels []dto.StockLevel) (int, error) {
	s.calls++
	s.business = business
	s.levels = levels
	return len(levels), nil
}

func encode(t *testing.T, eventType string, payload interface{}) []byte {
	t.Helper()
	ev, err := broker.NewEvent(eventType, payload)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestProcessSaleCompleted(t *testing.T) {
	spy := &notifierSpy{}
	l := NewInventoryListener(nil, spy, logger.NewNop())

	l.processMessage(context.Background(), encode(t, broker.EventSaleCompleted, SaleCompletedPayload{
		SaleID:     "s1",
		SaleNumber: 7,
		Business:   model.BusinessLusqtoff,
		Stock: []StockChangePayload{
			{ProductID: "p1", Code: "A", Name: "Taladro", Before: 5, After: 3, MinStock: 4},
			{ProductID: "p2", Code: "B", Name: "Mechas", Before: 20, After: 19, MinStock: 4},
		},
	}))

	if spy.calls != 1 || spy.business != model.BusinessLusqtoff {
		t.Fatalf("calls = %d business = %s", spy.calls, spy.business)
	}
	if len(spy.levels) != 2 || spy.levels[0].Stock != 3 || !spy.levels[0].IsLow() || spy.levels[1].IsLow() {
		t.Fatalf("levels = %+v", spy.levels)
	}
}

func TestProcessIgnoresOtherMessages(t *testing.T) {
	spy := &notifierSpy{}
	l := NewInventoryListener(nil, spy, logger.NewNop())
	ctx := context.Background()

	l.processMessage(ctx, []byte("not json"))
	l.processMessage(ctx, encode(t, broker.EventAccountMovement, map[string]string{"id": "m1"}))

	if spy.calls != 0 {
		t.Fatalf("unexpected NotifyLowStock calls: %d", spy.calls)
	}
}

type scriptedReader struct {
	messages []kafka.Message
	cancel   context.CancelFunc
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		r.cancel()
		return kafka.Message{}, errors.New("closed")
	}
	m := r.messages[0]
	r.messages = r.messages[1:]
	return m, nil
}

func TestStartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	spy := &notifierSpy{}
	reader := &scriptedReader{
		messages: []kafka.Message{{Value: encode(t, broker.EventSaleCompleted, SaleCompletedPayload{Business: model.BusinessBendeckTools})}},
		cancel:   cancel,
	}

	NewInventoryListener(reader, spy, logger.NewNop()).Start(ctx)

	if spy.calls != 1 {
		t.Fatalf("calls = %d, want 1", spy.calls)
	}
}

func TestLowStockWatcher(t *testing.T) {
	spy := &notifierSpy{}
	w := NewLowStockWatcher(spy, logger.NewNop())

	w.StockChanged(context.Background(), model.BusinessBendeckTools, &model.Product{Stock: 10, MinStock: 2})
	if spy.calls != 0 {
		t.Fatal("healthy stock must not notify")
	}
	w.StockChanged(context.Background(), model.BusinessBendeckTools, &model.Product{BaseModel: model.BaseModel{ID: "p1"}, Stock: 2, MinStock: 2})
	if spy.calls != 1 || spy.levels[0].ProductID != "p1" {
		t.Fatalf("watcher calls = %d levels = %+v", spy.calls, spy.levels)
	}
}
