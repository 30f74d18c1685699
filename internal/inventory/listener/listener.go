package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/notification"
	"github.com/fekuna/omnipos-sales-service/internal/notification/dto"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// InventoryListener raises low-stock notifications from sale.completed events.
type InventoryListener struct {
	consumer      MessageReader
	notifications notification.UseCase
	logger        logger.ZapLogger
}

func NewInventoryListener(consumer MessageReader, notifications notification.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer:      consumer,
		notifications: notifications,
		logger:        logger,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting Inventory Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Inventory Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type SaleCompletedPayload struct {
	SaleID     string               `json:"sale_id"`
	SaleNumber int64                `json:"sale_number"`
	Business   model.Business       `json:"business"`
	Stock      []StockChangePayload `json:"stock"`
}

type StockChangePayload struct {
	ProductID string `json:"product_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Before    int    `json:"before"`
	After     int    `json:"after"`
	MinStock  int    `json:"min_stock"`
}

func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var event broker.Event
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != broker.EventSaleCompleted {
		return
	}

	var payload SaleCompletedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		l.logger.Error("Failed to unmarshal sale payload", zap.String("event_id", event.EventID), zap.Error(err))
		return
	}

	l.logger.Debug("Processing sale.completed event", zap.Int64("sale_number", payload.SaleNumber))

	levels := make([]dto.StockLevel, 0, len(payload.Stock))
	for _, s := range payload.Stock {
		levels = append(levels, dto.StockLevel{
			ProductID: s.ProductID,
			Code:      s.Code,
			Name:      s.Name,
			Stock:     s.After,
			MinStock:  s.MinStock,
		})
	}

	if _, err := l.notifications.NotifyLowStock(ctx, payload.Business, levels); err != nil {
		l.logger.Error("Failed to raise low stock notifications",
			zap.Int64("sale_number", payload.SaleNumber),
			zap.Error(err),
		)
	}
}

// LowStockWatcher reports manual adjustments that leave a product at or below its minimum.
type LowStockWatcher struct {
	notifications notification.UseCase
	logger        logger.ZapLogger
}

func NewLowStockWatcher(notifications notification.UseCase, logger logger.ZapLogger) *LowStockWatcher {
	return &LowStockWatcher{notifications: notifications, logger: logger}
}

func (w *LowStockWatcher) StockChanged(ctx context.Context, business model.Business, p *model.Product) {
	level := dto.StockLevel{ProductID: p.ID, Code: p.Code, Name: p.Name, Stock: p.Stock, MinStock: p.MinStock}
	if !level.IsLow() {
		return
	}
	if _, err := w.notifications.NotifyLowStock(ctx, business, []dto.StockLevel{level}); err != nil {
		w.logger.Warn("failed to raise low stock notification", zap.String("product_id", p.ID), zap.Error(err))
	}
}
