package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/factory"
	"paypal-payments-gateway/internal/model"
	"paypal-payments-gateway/internal/processor"
	"paypal-payments-gateway/internal/repository"
	"paypal-payments-gateway/internal/storefront"
)

// Handled event types.
const (
	EventCheckoutOrderApproved  = "CHECKOUT.ORDER.APPROVED"
	EventCheckoutOrderCompleted = "CHECKOUT.ORDER.COMPLETED"
	EventCaptureCompleted       = "PAYMENT.CAPTURE.COMPLETED"
	EventCapturePending         = "PAYMENT.CAPTURE.PENDING"
	EventCaptureDenied          = "PAYMENT.CAPTURE.DENIED"
	EventCaptureReversed        = "PAYMENT.CAPTURE.REVERSED"
	EventCaptureRefunded        = "PAYMENT.CAPTURE.REFUNDED"
	EventAuthorizationVoided    = "PAYMENT.AUTHORIZATION.VOIDED"
)

// ErrOrderNotFound means no platform order matches the event resource.
var ErrOrderNotFound = errors.New("no order found for webhook resource")

// RequestHandler reacts to one or more event types.
type RequestHandler interface {
	EventTypes() []string
	Handle(ctx context.Context, event *entity.WebhookEvent, order *model.Order, resource *model.PaypalResource) error
}

// ApprovedOrderProcessor captures or authorizes an order the buyer approved.
// It runs under the order lock already held by the caller.
type ApprovedOrderProcessor interface {
	ProcessApproved(ctx context.Context, order *model.Order, ppOrderID string) error
}

// EventTypes lists the types of the given handlers, for registration.
func EventTypes(handlers []RequestHandler) []string {
	var types []string
	for _, h := range handlers {
		types = append(types, h.EventTypes()...)
	}
	return types
}

// findOrder resolves the platform order from the resource custom_id, or
// from the processor order id stored in the order meta.
func findOrder(ctx context.Context, orders repository.OrderRepository, eventType string, res *model.PaypalResource) (*model.Order, error) {
	if ref := res.PlatformOrderRef(); ref != "" {
		if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
			order, err := orders.FindByID(ctx, uint(id))
			if err == nil {
				return order, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("find order %d: %w", id, err)
			}
		}
	}

	ppOrderID := res.PayPalOrderID(eventType)
	if ppOrderID == "" {
		return nil, ErrOrderNotFound
	}
	order, err := orders.FindByPayPalOrderID(ctx, ppOrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order by paypal id %s: %w", ppOrderID, err)
	}
	return order, nil
}

type checkoutOrderApproved struct {
	processor ApprovedOrderProcessor
	log       *slog.Logger
}

func NewCheckoutOrderApproved(p ApprovedOrderProcessor, log *slog.Logger) RequestHandler {
	return &checkoutOrderApproved{processor: p, log: log}
}

func (h *checkoutOrderApproved) EventTypes() []string { return []string{EventCheckoutOrderApproved} }

func (h *checkoutOrderApproved) Handle(ctx context.Context, event *entity.WebhookEvent, order *model.Order, res *model.PaypalResource) error {
	if storefront.IsPaid(order.Status) {
		h.log.DebugContext(ctx, "order already paid", slog.Uint64("order_id", uint64(order.ID)))
		return nil
	}
	return h.processor.ProcessApproved(ctx, order, res.PayPalOrderID(event.EventType))
}

type checkoutOrderCompleted struct {
	db     *gorm.DB
	orders *factory.OrderFactory
	meta   *processor.OrderMeta
}

func NewCheckoutOrderCompleted(db *gorm.DB, orders *factory.OrderFactory, meta *processor.OrderMeta) RequestHandler {
	return &checkoutOrderCompleted{db: db, orders: orders, meta: meta}
}

func (h *checkoutOrderCompleted) EventTypes() []string { return []string{EventCheckoutOrderCompleted} }

func (h *checkoutOrderCompleted) Handle(ctx context.Context, event *entity.WebhookEvent, order *model.Order, _ *model.PaypalResource) error {
	ppOrder, err := h.orders.FromResponse(event.Resource)
	if err != nil {
		return fmt.Errorf("parse completed order: %w", err)
	}
	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := h.meta.ApplyPaymentStatus(ctx, tx, order, ppOrder)
		return err
	})
}

// paymentCapture handles the capture status events.
type paymentCapture struct {
	db   *gorm.DB
	meta *processor.OrderMeta
}

func NewPaymentCapture(db *gorm.DB, meta *processor.OrderMeta) RequestHandler {
	return &paymentCapture{db: db, meta: meta}
}

func (h *paymentCapture) EventTypes() []string {
	return []string{EventCaptureCompleted, EventCapturePending, EventCaptureDenied}
}

func (h *paymentCapture) Handle(ctx context.Context, event *entity.WebhookEvent, order *model.Order, res *model.PaypalResource) error {
	var capture entity.Capture
	if err := json.Unmarshal(event.Resource, &capture); err != nil {
		return fmt.Errorf("%w: decode capture: %v", entity.ErrMalformedResponse, err)
	}
	if capture.ID == "" {
		return fmt.Errorf("%w: capture without id", entity.ErrMalformedResponse)
	}
	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := h.meta.ApplyCapture(ctx, tx, order, res.PayPalOrderID(event.EventType), capture)
		return err
	})
}

type paymentCaptureReversed struct {
	db   *gorm.DB
	meta *processor.OrderMeta
}

func NewPaymentCaptureReversed(db *gorm.DB, meta *processor.OrderMeta) RequestHandler {
	return &paymentCaptureReversed{db: db, meta: meta}
}

func (h *paymentCaptureReversed) EventTypes() []string { return []string{EventCaptureReversed} }

func (h *paymentCaptureReversed) Handle(ctx context.Context, event *entity.WebhookEvent, order *model.Order, res *model.PaypalResource) error {
	from := append([]string{storefront.StatusOnHold}, processor.Paid...)
	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := h.meta.Transition(ctx, tx, order, from, storefront.StatusCancelled, res.PayPalOrderID(event.EventType))
		return err
	})
}

type paymentCaptureRefunded struct {
	db   *gorm.DB
	meta *processor.OrderMeta
}

func NewPaymentCaptureRefunded(db *gorm.DB, meta *processor.OrderMeta) RequestHandler {
	return &paymentCaptureRefunded{db: db, meta: meta}
}

func (h *paymentCaptureRefunded) EventTypes() []string { return []string{EventCaptureRefunded} }

// Handle records the refund; once the refunds add up to the order total
// the order is refunded.
func (h *paymentCaptureRefunded) Handle(ctx context.Context, event *entity.WebhookEvent, order *model.Order, res *model.PaypalResource) error {
	if res.ID == "" {
		return fmt.Errorf("%w: refund without id", entity.ErrMalformedResponse)
	}
	amount := decimal.Zero
	if res.Amount != nil {
		parsed, err := decimal.NewFromString(res.Amount.Value)
		if err != nil {
			return fmt.Errorf("%w: refund amount %q", entity.ErrMalformedResponse, res.Amount.Value)
		}
		amount = parsed
	}

	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		full, err := h.meta.RecordRefund(ctx, tx, order, res.ID, amount)
		if err != nil || !full {
			return err
		}
		_, err = h.meta.Transition(ctx, tx, order, processor.Paid, storefront.StatusRefunded, res.PayPalOrderID(event.EventType))
		return err
	})
}

type authorizationVoided struct {
	db   *gorm.DB
	meta *processor.OrderMeta
}

func NewAuthorizationVoided(db *gorm.DB, meta *processor.OrderMeta) RequestHandler {
	return &authorizationVoided{db: db, meta: meta}
}

func (h *authorizationVoided) EventTypes() []string { return []string{EventAuthorizationVoided} }

func (h *authorizationVoided) Handle(ctx context.Context, event *entity.WebhookEvent, order *model.Order, res *model.PaypalResource) error {
	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := h.meta.Transition(ctx, tx, order, processor.AwaitingPayment, storefront.StatusCancelled, res.PayPalOrderID(event.EventType))
		return err
	})
}

// DefaultHandlers returns the handlers for every supported event type.
func DefaultHandlers(db *gorm.DB, approved ApprovedOrderProcessor, orders *factory.OrderFactory, meta *processor.OrderMeta, log *slog.Logger) []RequestHandler {
	return []RequestHandler{
		NewCheckoutOrderApproved(approved, log),
		NewCheckoutOrderCompleted(db, orders, meta),
		NewPaymentCapture(db, meta),
		NewPaymentCaptureReversed(db, meta),
		NewPaymentCaptureRefunded(db, meta),
		NewAuthorizationVoided(db, meta),
	}
}
