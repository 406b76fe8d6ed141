package listener

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/sampleloop/inventory-service/internal/wholesale"
	"github.com/sampleloop/inventory-service/internal/wholesale/dto"
	"github.com/sampleloop/inventory-service/pkg/broker"
)

// WholesaleListener consumes normalized commerce-platform events and feeds
// fulfilled case orders into the conversion engine.
type WholesaleListener struct {
	consumer *broker.KafkaConsumer
	uc       wholesale.UseCase
	logger   *zap.Logger
}

func NewWholesaleListener(consumer *broker.KafkaConsumer, uc wholesale.UseCase, logger *zap.Logger) *WholesaleListener {
	return &WholesaleListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *WholesaleListener) Start(ctx context.Context) {
	l.logger.Info("starting wholesale kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping wholesale kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type CaseOrderFulfilledEvent struct {
	EventID   string           `json:"eventId"`
	EventType string           `json:"eventType"`
	Payload   FulfilledPayload `json:"payload"`
	Timestamp time.Time        `json:"timestamp"`
}

type FulfilledPayload struct {
	OrderID string                 `json:"orderId"`
	StoreID string                 `json:"storeId"`
	Items   []FulfilledItemPayload `json:"items"`
}

type FulfilledItemPayload struct {
	CaseSKU      string `json:"caseSku"`
	CaseQuantity int    `json:"caseQuantity"`
}

func (l *WholesaleListener) processMessage(ctx context.Context, value []byte) {
	var event CaseOrderFulfilledEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "CaseOrderFulfilled" {
		return
	}

	l.logger.Info("processing CaseOrderFulfilled event",
		zap.String("order_id", event.Payload.OrderID))

	input := &dto.FulfilledOrderInput{
		OrderID: event.Payload.OrderID,
		StoreID: event.Payload.StoreID,
	}
	for _, item := range event.Payload.Items {
		input.Items = append(input.Items, dto.FulfilledItemInput{
			CaseSKU:      item.CaseSKU,
			CaseQuantity: item.CaseQuantity,
		})
	}

	result, err := l.uc.MarkIncoming(ctx, input)
	if err != nil {
		l.logger.Error("failed to mark wholesale order incoming",
			zap.String("order_id", event.Payload.OrderID),
			zap.Error(err))
		return
	}
	for _, itemErr := range result.ItemErrors {
		l.logger.Error("rejected wholesale order item",
			zap.String("order_id", event.Payload.OrderID),
			zap.String("case_sku", itemErr.CaseSKU),
			zap.String("reason", itemErr.Error.Code))
	}
}
