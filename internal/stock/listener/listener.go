package listener

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/lunapos/checkout-service/internal/broker"
	"github.com/lunapos/checkout-service/internal/model"
	"github.com/lunapos/checkout-service/internal/stock"
	"github.com/lunapos/checkout-service/internal/stock/dto"
)

// StockListener consumes purchasing events and posts the received
// quantities into the stock ledger.
type StockListener struct {
	consumer *broker.KafkaConsumer
	uc       stock.UseCase
	logger   *zap.Logger
}

func NewStockListener(consumer *broker.KafkaConsumer, uc stock.UseCase, logger *zap.Logger) *StockListener {
	return &StockListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *StockListener) Start(ctx context.Context) {
	l.logger.Info("Starting Stock Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Stock Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
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

type StockReceivedEvent struct {
	EventID   string               `json:"event_id"`
	EventType string               `json:"event_type"`
	Payload   StockReceivedPayload `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

type StockReceivedPayload struct {
	PurchaseOrderID string             `json:"purchase_order_id"`
	Items           []StockItemPayload `json:"items"`
}

type StockItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (l *StockListener) processMessage(ctx context.Context, value []byte) {
	var event StockReceivedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "StockReceived" {
		return
	}

	l.logger.Info("Processing StockReceived event", zap.String("purchase_order_id", event.Payload.PurchaseOrderID))

	for _, item := range event.Payload.Items {
		input := &dto.PostMovementInput{
			ProductID:     item.ProductID,
			Direction:     model.DirectionIn,
			Quantity:      item.Quantity,
			Reason:        model.ReasonPurchase,
			Note:          "Stock received",
			ReferenceType: "purchase_order",
			ReferenceID:   event.Payload.PurchaseOrderID,
			ActorID:       "system",
		}

		if _, err := l.uc.PostMovement(ctx, input); err != nil {
			l.logger.Error("Failed to post stock movement for received item",
				zap.String("purchase_order_id", event.Payload.PurchaseOrderID),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
		}
	}
}
