package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/event"
	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/model"
	"paypal-payments-gateway/internal/repository"
	"paypal-payments-gateway/internal/storefront"
)

var (
	// AwaitingPayment lists the statuses a payment confirmation may move an order out of.
	AwaitingPayment = []string{storefront.StatusPending, storefront.StatusOnHold, storefront.StatusFailed}
	Paid            = []string{storefront.StatusProcessing, storefront.StatusCompleted}
)

// Fees is the fee breakdown kept on the order.
type Fees struct {
	Gross     string `json:"gross_amount,omitempty"`
	PaypalFee string `json:"paypal_fee,omitempty"`
	Net       string `json:"net_amount,omitempty"`
	Currency  string `json:"currency_code,omitempty"`
}

func feesFromCapture(c entity.Capture) *Fees {
	b := c.SellerReceivableBreakdown
	if b == nil {
		return nil
	}
	fees := &Fees{}
	for _, m := range []struct {
		dst *string
		src *entity.Money
	}{{&fees.Gross, b.GrossAmount}, {&fees.PaypalFee, b.PaypalFee}, {&fees.Net, b.NetAmount}} {
		if m.src != nil {
			*m.dst = m.src.FormattedValue()
			fees.Currency = m.src.CurrencyCode()
		}
	}
	return fees
}

// AddCaptureMeta records a capture: the capture row, the transaction id, the
// captured flag once it completed and its fee breakdown.
func (m *OrderMeta) AddCaptureMeta(ctx context.Context, tx *gorm.DB, orderID uint, capture entity.Capture) error {
	row := &model.Capture{
		CaptureID: capture.ID,
		OrderID:   orderID,
		Status:    capture.Status,
	}
	if capture.Amount != nil {
		row.Amount = capture.Amount.FormattedValue()
		row.Currency = capture.Amount.CurrencyCode()
	}
	if err := m.captures.Save(ctx, tx, row); err != nil {
		return fmt.Errorf("save capture %s: %w", capture.ID, err)
	}

	meta := map[string]string{storefront.MetaTransactionID: capture.ID}
	if capture.Status == entity.PaymentStatusCompleted {
		meta[storefront.MetaCaptured] = strconv.FormatBool(true)
	}
	if fees := feesFromCapture(capture); fees != nil {
		raw, err := json.Marshal(fees)
		if err != nil {
			return fmt.Errorf("marshal fees: %w", err)
		}
		meta[storefront.MetaFees] = string(raw)
	}
	if err := m.orders.SetMeta(ctx, tx, orderID, meta); err != nil {
		return fmt.Errorf("save capture meta: %w", err)
	}
	return nil
}

// ApplyPaymentStatus moves the order according to the processor order's
// payments and returns the resulting platform status. An order that already
// left the awaiting statuses is not touched.
func (m *OrderMeta) ApplyPaymentStatus(ctx context.Context, tx *gorm.DB, order *model.Order, ppOrder *entity.Order) (string, error) {
	var err error
	for _, c := range ppOrder.Captures() {
		if err := m.AddCaptureMeta(ctx, tx, order.ID, c); err != nil {
			return "", err
		}
	}

	target := paymentStatusTarget(ppOrder)
	if target == "" {
		return order.Status, nil
	}
	if target == storefront.StatusProcessing {
		if paid, ok := paidAmount(ppOrder); ok {
			if target, err = m.holdOnMismatch(ctx, tx, order, paid); err != nil {
				return "", err
			}
		}
	}
	changed, err := m.Transition(ctx, tx, order, AwaitingPayment, target, ppOrder.ID)
	if err != nil || !changed {
		return order.Status, err
	}
	return target, nil
}

// ApplyCapture records a single capture, as delivered by a webhook, and
// moves the order according to its status.
func (m *OrderMeta) ApplyCapture(ctx context.Context, tx *gorm.DB, order *model.Order, ppOrderID string, capture entity.Capture) (string, error) {
	if err := m.AddCaptureMeta(ctx, tx, order.ID, capture); err != nil {
		return "", err
	}
	target := captureStatusTarget(capture.Status)
	if target == "" {
		return order.Status, nil
	}
	if target == storefront.StatusProcessing && capture.Amount != nil {
		var err error
		if target, err = m.holdOnMismatch(ctx, tx, order, *capture.Amount); err != nil {
			return "", err
		}
	}
	changed, err := m.Transition(ctx, tx, order, AwaitingPayment, target, ppOrderID)
	if err != nil || !changed {
		return order.Status, err
	}
	return target, nil
}

// holdOnMismatch returns the on-hold status, and flags the order for review,
// when paid differs from the expected total. Otherwise it returns processing.
func (m *OrderMeta) holdOnMismatch(ctx context.Context, tx *gorm.DB, order *model.Order, paid entity.Money) (string, error) {
	err := CheckAmount(order, paid)
	if err == nil {
		return storefront.StatusProcessing, nil
	}
	m.log.WarnContext(ctx, "paid amount differs from order total",
		slog.Uint64("order_id", uint64(order.ID)), logger.Err(err), logger.Traced(ctx))
	flag := map[string]string{storefront.MetaAmountMismatch: paid.FormattedValue() + " " + paid.CurrencyCode()}
	if err := m.orders.SetMeta(ctx, tx, order.ID, flag); err != nil {
		return "", fmt.Errorf("flag amount mismatch: %w", err)
	}
	return storefront.StatusOnHold, nil
}

// Transition moves the order to `to` while its status is one of `from` and
// reports whether it moved.
func (m *OrderMeta) Transition(ctx context.Context, tx *gorm.DB, order *model.Order, from []string, to, ppOrderID string) (bool, error) {
	changed, err := m.orders.UpdateStatus(ctx, tx, order.ID, from, to)
	if err != nil {
		return false, fmt.Errorf("update order %d status: %w", order.ID, err)
	}
	if !changed {
		return false, nil
	}

	m.log.InfoContext(ctx, "order status changed",
		slog.Uint64("order_id", uint64(order.ID)),
		slog.String("from", order.Status),
		slog.String("to", to),
		logger.Traced(ctx))
	if to == storefront.StatusProcessing {
		m.publish(ctx, event.New(event.PaymentCompleted, order.ID, ppOrderID, nil))
	}
	return true, nil
}

// RecordRefund adds the refund to the order's refund list and running
// refunded total once. It reports whether the refunds now cover the order.
func (m *OrderMeta) RecordRefund(ctx context.Context, tx *gorm.DB, order *model.Order, refundID string, amount decimal.Decimal) (bool, error) {
	total, err := recordRefund(ctx, m.orders, tx, order, refundID, amount)
	if err != nil {
		return false, err
	}
	return total.GreaterThanOrEqual(order.Total), nil
}

// recordRefund returns the refunded total including refundID. The current
// list and total are read through tx, so a refund already on the list is
// not counted again.
func recordRefund(ctx context.Context, orders repository.OrderRepository, tx *gorm.DB, order *model.Order, refundID string, amount decimal.Decimal) (decimal.Decimal, error) {
	meta, err := orders.MetaValues(ctx, tx, order.ID, storefront.MetaRefundIDs, storefront.MetaRefundedTotal)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load refunds of order %d: %w", order.ID, err)
	}
	total := decimal.Zero
	if raw := meta[storefront.MetaRefundedTotal]; raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse refunded total of order %d: %w", order.ID, err)
		}
		total = parsed
	}

	existing := meta[storefront.MetaRefundIDs]
	ids := appendRefundID(existing, refundID)
	if ids == existing {
		return total, nil
	}

	total = total.Add(amount)
	err = orders.SetMeta(ctx, tx, order.ID, map[string]string{
		storefront.MetaRefundIDs:     ids,
		storefront.MetaRefundedTotal: total.String(),
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("save refund %s: %w", refundID, err)
	}
	return total, nil
}

func appendRefundID(ids, id string) string {
	if ids == "" {
		return id
	}
	for _, existing := range strings.Split(ids, ",") {
		if existing == id {
			return ids
		}
	}
	return ids + "," + id
}

func captureStatusTarget(status string) string {
	switch status {
	case entity.PaymentStatusCompleted:
		return storefront.StatusProcessing
	case entity.PaymentStatusPending:
		return storefront.StatusOnHold
	case entity.PaymentStatusDeclined, entity.PaymentStatusFailed:
		return storefront.StatusFailed
	}
	return ""
}

// paymentStatusTarget is "" when the payments do not settle the order yet.
func paymentStatusTarget(ppOrder *entity.Order) string {
	if ppOrder.Intent == entity.IntentAuthorize {
		for _, a := range ppOrder.Authorizations() {
			switch a.Status {
			case entity.PaymentStatusCreated, entity.PaymentStatusPending:
				return storefront.StatusOnHold
			case entity.PaymentStatusCaptured:
				return storefront.StatusProcessing
			case entity.PaymentStatusDenied:
				return storefront.StatusFailed
			}
		}
		return ""
	}

	captures := ppOrder.Captures()
	if len(captures) == 0 {
		return ""
	}
	return captureStatusTarget(captures[0].Status)
}
