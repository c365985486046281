// Package event publishes order notifications for other systems.
package event

import (
	"context"
	"log/slog"
	"time"

	"paypal-payments-gateway/internal/logger"
)

type Type string

const (
	// OrderCreated follows the reconciliation of a new processor order.
	OrderCreated Type = "order_created"
	// ContactsAdded carries contact details that override the billing record.
	ContactsAdded Type = "contacts_added"
	// PaymentCompleted follows a confirmed capture.
	PaymentCompleted Type = "payment_completed"
)

type Event struct {
	Type          Type              `json:"type"`
	OrderID       uint              `json:"order_id"`
	PayPalOrderID string            `json:"paypal_order_id,omitempty"`
	Data          map[string]string `json:"data,omitempty"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

func New(t Type, orderID uint, paypalOrderID string, data map[string]string) Event {
	return Event{
		Type:          t,
		OrderID:       orderID,
		PayPalOrderID: paypalOrderID,
		Data:          data,
		OccurredAt:    time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher writes events to the log only.
type LogPublisher struct {
	log *slog.Logger
}

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	p.log.InfoContext(ctx, "order event",
		slog.String("type", string(e.Type)),
		slog.Uint64("order_id", uint64(e.OrderID)),
		slog.String("paypal_order_id", e.PayPalOrderID),
		logger.Traced(ctx),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
