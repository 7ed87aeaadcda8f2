// Package notify delivers best-effort order event notifications. The order
// engine treats every implementation as fire-and-forget: a failed delivery
// is logged by the caller and never rolls back the order it describes.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/salvadalba/nodaysidle-fabricloop/internal/domain"
)

// event is the wire form of an order notification. Amounts travel as
// strings to keep decimal precision out of float territory.
type event struct {
	EventType   string    `json:"event_type"`
	OrderID     string    `json:"order_id"`
	MaterialID  string    `json:"material_id"`
	BuyerID     string    `json:"buyer_id"`
	SellerID    string    `json:"seller_id"`
	Quantity    string    `json:"quantity"`
	Unit        string    `json:"unit"`
	TotalAmount string    `json:"total_amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

const (
	eventOrderCreated = "order.created"
	eventOrderUpdated = "order.updated"
)

func newEvent(eventType string, order domain.Order) event {
	return event{
		EventType:   eventType,
		OrderID:     order.ID,
		MaterialID:  order.MaterialID,
		BuyerID:     order.BuyerID,
		SellerID:    order.SellerID,
		Quantity:    order.Quantity.String(),
		Unit:        order.Unit,
		TotalAmount: order.TotalAmount.String(),
		Currency:    order.Currency,
		Status:      string(order.Status),
		Timestamp:   time.Now().UTC(),
	}
}

// Log is a notifier that only records the event. It stands in for the
// queue publisher when no broker is configured.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

func (l *Log) OrderCreated(_ context.Context, order domain.Order) error {
	l.log(eventOrderCreated, order)
	return nil
}

func (l *Log) OrderUpdated(_ context.Context, order domain.Order) error {
	l.log(eventOrderUpdated, order)
	return nil
}

func (l *Log) log(eventType string, order domain.Order) {
	l.logger.Info("order event",
		zap.String("event_type", eventType),
		zap.String("order_id", order.ID),
		zap.String("material_id", order.MaterialID),
		zap.String("status", string(order.Status)),
	)
}
