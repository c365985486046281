package processor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"paypal-payments-gateway/internal/client"
	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/model"
	"paypal-payments-gateway/internal/repository"
	"paypal-payments-gateway/internal/storefront"
)

type RefundMode int

const (
	RefundModeUnknown RefundMode = iota
	RefundModeRefund
	RefundModeVoid
)

// DetermineRefundMode picks refund when something was captured and void
// when only open authorizations exist.
func DetermineRefundMode(ppOrder *entity.Order) RefundMode {
	for _, c := range ppOrder.Captures() {
		switch c.Status {
		case entity.PaymentStatusCompleted, entity.PaymentStatusPartiallyRefunded, entity.PaymentStatusPending:
			return RefundModeRefund
		}
	}
	for _, a := range ppOrder.Authorizations() {
		if a.Status == entity.PaymentStatusCreated || a.Status == entity.PaymentStatusPending {
			return RefundModeVoid
		}
	}
	return RefundModeUnknown
}

type Refunds struct {
	db            *gorm.DB
	pp            client.PaypalClient
	orders        repository.OrderRepository
	invoicePrefix string
	log           *slog.Logger
}

func NewRefunds(db *gorm.DB, pp client.PaypalClient, orders repository.OrderRepository, invoicePrefix string, log *slog.Logger) *Refunds {
	return &Refunds{
		db:            db,
		pp:            pp,
		orders:        orders,
		invoicePrefix: invoicePrefix,
		log:           log,
	}
}

// Refund refunds amount of the order's capture and returns the refund id.
// An order that was only authorized is voided instead and the id is empty.
func (r *Refunds) Refund(ctx context.Context, orderID uint, amount decimal.Decimal, reason string) (string, error) {
	if !amount.IsPositive() {
		return "", fmt.Errorf("%w: refund amount must be positive", entity.ErrInvalidArgument)
	}
	order, ppOrder, err := loadOrders(ctx, r.orders, r.pp, orderID)
	if err != nil {
		return "", err
	}

	switch DetermineRefundMode(ppOrder) {
	case RefundModeVoid:
		return "", r.void(ctx, order, ppOrder)
	case RefundModeRefund:
	default:
		return "", fmt.Errorf("%w: order %d has nothing to refund", entity.ErrInvalidArgument, orderID)
	}

	capture := refundableCapture(ppOrder)
	if capture == nil {
		return "", fmt.Errorf("%w: order %d has no completed capture", entity.ErrInvalidArgument, orderID)
	}
	currency := order.Currency
	if capture.Amount != nil {
		currency = capture.Amount.CurrencyCode()
	}
	money := entity.NewMoney(amount, currency).Round()
	refund, err := r.pp.RefundCapture(ctx, capture.ID, client.RefundRequest{
		Amount:      &money,
		NoteToPayer: reason,
		InvoiceID:   r.invoicePrefix + order.Number,
	})
	if err != nil {
		return "", fmt.Errorf("refund capture %s: %w", capture.ID, err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refunded, err := recordRefund(ctx, r.orders, tx, order, refund.ID, money.Value())
		if err != nil {
			return err
		}
		if refunded.GreaterThanOrEqual(order.Total) {
			if _, err := r.orders.UpdateStatus(ctx, tx, order.ID, nil, storefront.StatusRefunded); err != nil {
				return fmt.Errorf("update order %d status: %w", order.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	r.log.InfoContext(ctx, "capture refunded",
		slog.Uint64("order_id", uint64(order.ID)),
		slog.String("refund_id", refund.ID),
		slog.String("amount", money.FormattedValue()),
		logger.Traced(ctx))
	return refund.ID, nil
}

// refundableCapture is the first completed capture; a partially refunded
// one can still be refunded further.
func refundableCapture(ppOrder *entity.Order) *entity.Capture {
	captures := ppOrder.Captures()
	for _, status := range []string{entity.PaymentStatusCompleted, entity.PaymentStatusPartiallyRefunded} {
		for i := range captures {
			if captures[i].Status == status {
				return &captures[i]
			}
		}
	}
	return nil
}

// Void voids every open authorization. Captured orders must be refunded.
func (r *Refunds) Void(ctx context.Context, orderID uint) error {
	order, ppOrder, err := loadOrders(ctx, r.orders, r.pp, orderID)
	if err != nil {
		return err
	}
	if DetermineRefundMode(ppOrder) != RefundModeVoid {
		return fmt.Errorf("%w: only orders with open authorizations can be voided", entity.ErrInvalidArgument)
	}
	return r.void(ctx, order, ppOrder)
}

func (r *Refunds) void(ctx context.Context, order *model.Order, ppOrder *entity.Order) error {
	var voided []string
	for _, a := range ppOrder.Authorizations() {
		if a.Status != entity.PaymentStatusCreated && a.Status != entity.PaymentStatusPending {
			continue
		}
		if err := r.pp.VoidAuthorization(ctx, a.ID); err != nil {
			return fmt.Errorf("void authorization %s: %w", a.ID, err)
		}
		voided = append(voided, a.ID)
	}

	if _, err := r.orders.UpdateStatus(ctx, nil, order.ID, nil, storefront.StatusCancelled); err != nil {
		return fmt.Errorf("update order %d status: %w", order.ID, err)
	}
	r.log.InfoContext(ctx, "authorizations voided",
		slog.Uint64("order_id", uint64(order.ID)),
		slog.String("authorizations", strings.Join(voided, ",")),
		logger.Traced(ctx))
	return nil
}
