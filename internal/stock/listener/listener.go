package listener

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/stocklog/inventory-service/internal/stock"
	"github.com/stocklog/inventory-service/internal/stock/dto"
	"github.com/stocklog/inventory-service/pkg/broker"
	"github.com/stocklog/inventory-service/pkg/logger"
)

// StockListener consumes sale events recorded by external channels and
// applies them through the mutation engine, so bus-driven sales get the
// same capping and audit treatment as API calls.
type StockListener struct {
	consumer *broker.KafkaConsumer
	uc       stock.UseCase
	logger   logger.Logger
}

func NewStockListener(consumer *broker.KafkaConsumer, uc stock.UseCase, log logger.Logger) *StockListener {
	return &StockListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

func (l *StockListener) Start(ctx context.Context) {
	l.logger.Info("starting stock sale-event listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping stock sale-event listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read sale event", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type SaleRecordedEvent struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Payload   SalePayload `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type SalePayload struct {
	OwnerID string         `json:"owner_id"`
	Reason  string         `json:"reason"`
	Items   []SaleLineItem `json:"items"`
}

type SaleLineItem struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

func (l *StockListener) processMessage(ctx context.Context, value []byte) {
	var event SaleRecordedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal sale event", zap.Error(err))
		return
	}

	if event.EventType != "SaleRecorded" {
		return
	}

	l.logger.Info("processing SaleRecorded event", zap.String("event_id", event.EventID))

	reason := event.Payload.Reason
	if reason == "" {
		reason = "sale " + event.EventID
	}

	for _, line := range event.Payload.Items {
		input := &dto.AdjustInput{
			Quantity:    line.Quantity,
			Description: reason,
		}

		if _, err := l.uc.Decrease(ctx, event.Payload.OwnerID, line.ItemID, input); err != nil {
			l.logger.Error("failed to apply sale event",
				zap.String("event_id", event.EventID),
				zap.String("item_id", line.ItemID),
				zap.Error(err),
			)
		}
	}
}
