package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"paypal-payments-gateway/internal/client"
	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/experience"
	"paypal-payments-gateway/internal/factory"
	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/model"
	"paypal-payments-gateway/internal/processor"
	"paypal-payments-gateway/internal/repository"
	"paypal-payments-gateway/internal/session"
	"paypal-payments-gateway/internal/storefront"
	"paypal-payments-gateway/internal/threeds"
	"paypal-payments-gateway/internal/webhook"
)

var tracer = otel.Tracer("paypal-payments-gateway/service")

//go:generate mockery --name=CheckoutService --output=./mocks --case=camel
type CheckoutService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error)
	Approve(ctx context.Context, ppOrderID string) (*entity.Order, error)
	Complete(ctx context.Context, ppOrderID string) (*model.Order, error)
	HandleReturn(ctx context.Context, token string) (*ReturnResult, error)
	ProcessApproved(ctx context.Context, order *model.Order, ppOrderID string) error
	GetOrder(ctx context.Context, ppOrderID string) (*entity.Order, error)
}

type CreateOrderInput struct {
	Context       string
	FundingSource string
	Cart          *storefront.Cart
	// OrderID pays an existing order instead of creating one from the cart.
	OrderID   uint
	Locale    string
	Cookies   []*http.Cookie
	RequestID string
}

type CreateOrderResult struct {
	OrderID       uint               `json:"order_id"`
	PayPalOrderID string             `json:"id"`
	Status        entity.OrderStatus `json:"status"`
	ApprovalURL   string             `json:"approval_url,omitempty"`
	CartDataKey   string             `json:"cart_data_key,omitempty"`
}

type ReturnResult struct {
	OrderID     uint
	Status      string
	RedirectURL string
}

type CheckoutSettings struct {
	Intent           string
	InvoicePrefix    string
	ShippingCallback bool
	// OrderReceivedURL is a fmt pattern with one %d for the order id.
	OrderReceivedURL string
	CheckoutURL      string
}

// CheckoutDeps groups the collaborators of the checkout service.
type CheckoutDeps struct {
	DB            *gorm.DB
	Paypal        client.PaypalClient
	Orders        repository.OrderRepository
	PurchaseUnits *factory.PurchaseUnitFactory
	ReturnURLs    *factory.ReturnURLFactory
	Experience    experience.Builder
	ShippingPrefs *experience.ShippingPreferencePolicy
	ContactPrefs  *experience.ContactPreferencePolicy
	CallbackURLs  *experience.CallbackURLFactory
	ThreeDS       *threeds.Engine
	Meta          *processor.OrderMeta
	CartData      *session.CartDataStorage
	Orchestrator  *webhook.Orchestrator
}

type checkoutImpl struct {
	CheckoutDeps
	validator threeds.CaptureValidator
	settings  CheckoutSettings
	log       *slog.Logger
}

func NewCheckoutService(deps CheckoutDeps, settings CheckoutSettings, log *slog.Logger) CheckoutService {
	settings.Intent = strings.ToUpper(settings.Intent)
	if settings.Intent != entity.IntentAuthorize {
		settings.Intent = entity.IntentCapture
	}
	return &checkoutImpl{
		CheckoutDeps: deps,
		settings:     settings,
		log:          log,
	}
}

// CreateOrder creates the processor order for a cart or an existing order.
// A platform order is created from the cart first so the processor order
// always carries its id as custom_id.
func (s *checkoutImpl) CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	ctx, span := tracer.Start(ctx, "Checkout.CreateOrder")
	defer span.End()

	if in.Context == "" {
		in.Context = factory.ContextCheckout
	}
	source := paymentSource(in.FundingSource)

	order, err := s.platformOrder(ctx, in, source)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("order.id", int64(order.ID)), attribute.String("checkout.context", in.Context))
	sfOrder := order.ToStorefront()

	var pu entity.PurchaseUnit
	if in.Cart == nil || fixedAddress(in.Context) {
		pu = s.PurchaseUnits.FromOrder(sfOrder)
	} else {
		pu = s.PurchaseUnits.FromCart(in.Cart, s.settings.ShippingCallback)
		pu.CustomID = strconv.FormatUint(uint64(order.ID), 10)
		pu.InvoiceID = s.settings.InvoicePrefix + pu.CustomID
	}

	experienceContext, err := s.experienceContext(ctx, in, pu, sfOrder, source)
	if err != nil {
		return nil, err
	}

	ppOrder, err := s.Paypal.CreateOrder(ctx, client.CreateOrderRequest{
		Intent:            s.settings.Intent,
		PurchaseUnits:     []entity.PurchaseUnit{pu},
		PaymentSource:     source,
		ExperienceContext: experienceContext,
		RequestID:         in.RequestID,
	})
	if err != nil {
		return nil, fmt.Errorf("paypal api create order: %w", err)
	}

	err = s.Orders.SetMeta(ctx, nil, order.ID, map[string]string{
		storefront.MetaPayPalOrderID: ppOrder.ID,
		storefront.MetaIntent:        s.settings.Intent,
	})
	if err != nil {
		return nil, fmt.Errorf("store paypal order id: %w", err)
	}

	result := &CreateOrderResult{
		OrderID:       order.ID,
		PayPalOrderID: ppOrder.ID,
		Status:        ppOrder.Status,
		ApprovalURL:   ppOrder.ApprovalURL(),
	}
	if in.Cart != nil && !fixedAddress(in.Context) {
		data := session.CartDataFromCart(in.Cart)
		data.PayPalOrderID = ppOrder.ID
		if key, err := s.CartData.Save(ctx, data); err != nil {
			s.log.WarnContext(ctx, "save cart snapshot", logger.Err(err), logger.Traced(ctx))
		} else {
			result.CartDataKey = key
		}
	}

	s.log.InfoContext(ctx, "paypal order created",
		slog.Uint64("order_id", uint64(order.ID)),
		slog.String("paypal_order_id", ppOrder.ID),
		slog.String("context", in.Context),
		logger.Traced(ctx))
	return result, nil
}

func (s *checkoutImpl) platformOrder(ctx context.Context, in CreateOrderInput, source string) (*model.Order, error) {
	if in.OrderID != 0 {
		order, err := s.findOrder(ctx, in.OrderID)
		if err != nil {
			return nil, err
		}
		if storefront.IsPaid(order.Status) {
			return nil, fmt.Errorf("%w: order %d is already paid", entity.ErrInvalidArgument, order.ID)
		}
		return order, nil
	}
	if in.Context == factory.ContextPayNow {
		return nil, fmt.Errorf("%w: pay-now needs an order id", entity.ErrInvalidArgument)
	}
	if in.Cart == nil || len(in.Cart.Items) == 0 {
		return nil, fmt.Errorf("%w: empty cart", entity.ErrInvalidArgument)
	}

	order := model.NewOrderFromCart(in.Cart, gatewayFor(source))
	if err := s.Orders.Create(ctx, nil, order); err != nil {
		return nil, fmt.Errorf("store order in db: %w", err)
	}
	return order, nil
}

func (s *checkoutImpl) experienceContext(
	ctx context.Context,
	in CreateOrderInput,
	pu entity.PurchaseUnit,
	order *storefront.Order,
	source string,
) (entity.ExperienceContext, error) {
	shipping := s.ShippingPrefs.FromState(experience.ShippingState{
		PurchaseUnit:  pu,
		Context:       in.Context,
		Cart:          in.Cart,
		FundingSource: in.FundingSource,
		Order:         order,
	})
	action := entity.UserActionContinue
	if fixedAddress(in.Context) {
		action = entity.UserActionPayNow
	}

	cancelURL, err := s.ReturnURLs.FromContext(in.Context, in.Cart, order)
	if err != nil {
		return entity.ExperienceContext{}, err
	}

	b := s.Experience.
		ForUserLocale(in.Locale).
		WithDefaultPayPalConfig(shipping, action).
		WithCustomCancelURL(cancelURL).
		WithContactPreference(s.ContactPrefs.FromState(source))

	if s.settings.ShippingCallback && s.CallbackURLs != nil && shipping == entity.ShippingPreferenceGetFromFile {
		callbackURL, err := s.CallbackURLs.Create(ctx, in.Cookies)
		if err != nil {
			s.log.WarnContext(ctx, "shipping callback disabled for order", logger.Err(err), logger.Traced(ctx))
		} else {
			b = b.WithShippingCallback(callbackURL)
		}
	}
	return b.Build(), nil
}

// Approve checks an order the buyer approved in the processor popup.
func (s *checkoutImpl) Approve(ctx context.Context, ppOrderID string) (*entity.Order, error) {
	ctx, span := tracer.Start(ctx, "Checkout.Approve")
	defer span.End()

	ppOrder, err := s.GetOrder(ctx, ppOrderID)
	if err != nil {
		return nil, err
	}
	if err := s.checkThreeDS(ctx, ppOrder); err != nil {
		return nil, err
	}
	switch ppOrder.Status {
	case entity.OrderStatusApproved, entity.OrderStatusCompleted:
		return ppOrder, nil
	case entity.OrderStatusCreated:
		if ppOrder.PaymentSourceName() == entity.PaymentSourceCard {
			return ppOrder, nil
		}
	}
	return nil, fmt.Errorf("%w: order %s is %s", entity.ErrInvalidArgument, ppOrder.ID, ppOrder.Status)
}

// Complete captures or authorizes the order under its lock.
func (s *checkoutImpl) Complete(ctx context.Context, ppOrderID string) (*model.Order, error) {
	ctx, span := tracer.Start(ctx, "Checkout.Complete")
	defer span.End()

	ppOrder, err := s.GetOrder(ctx, ppOrderID)
	if err != nil {
		return nil, err
	}
	order, err := s.orderFor(ctx, ppOrder)
	if err != nil {
		return nil, err
	}

	err = s.Orchestrator.WithOrderLock(ctx, ppOrder.ID, "complete", func(ctx context.Context) error {
		return s.process(ctx, order.ID, ppOrder)
	})
	if err != nil {
		return nil, err
	}
	return s.findOrder(ctx, order.ID)
}

// HandleReturn finishes the checkout when the buyer comes back from the
// processor, including card orders still CREATED after a 3-D Secure redirect.
func (s *checkoutImpl) HandleReturn(ctx context.Context, token string) (*ReturnResult, error) {
	ctx, span := tracer.Start(ctx, "Checkout.HandleReturn")
	defer span.End()

	if token == "" {
		return nil, fmt.Errorf("%w: missing token", entity.ErrInvalidArgument)
	}
	ppOrder, err := s.GetOrder(ctx, token)
	if err != nil {
		s.log.WarnContext(ctx, "return url: fetch order failed",
			slog.String("paypal_order_id", token), logger.Err(err), logger.Traced(ctx))
		return nil, err
	}
	order, err := s.orderFor(ctx, ppOrder)
	if err != nil {
		s.log.WarnContext(ctx, "return url: no platform order",
			slog.String("paypal_order_id", token), logger.Err(err), logger.Traced(ctx))
		return nil, err
	}

	err = s.Orchestrator.WithOrderLock(ctx, ppOrder.ID, "return", func(ctx context.Context) error {
		return s.process(ctx, order.ID, ppOrder)
	})
	if err != nil {
		s.log.WarnContext(ctx, "return url: payment failed",
			slog.String("paypal_order_id", token), logger.Err(err), logger.Traced(ctx))
		return nil, err
	}

	order, err = s.findOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &ReturnResult{
		OrderID:     order.ID,
		Status:      order.Status,
		RedirectURL: s.orderReceivedURL(order.ID),
	}, nil
}

// ProcessApproved settles an approved order for the webhook handler, which
// already holds the order lock.
func (s *checkoutImpl) ProcessApproved(ctx context.Context, order *model.Order, ppOrderID string) error {
	ppOrder, err := s.GetOrder(ctx, ppOrderID)
	if err != nil {
		return err
	}
	return s.process(ctx, order.ID, ppOrder)
}

func (s *checkoutImpl) GetOrder(ctx context.Context, ppOrderID string) (*entity.Order, error) {
	if ppOrderID == "" {
		return nil, fmt.Errorf("%w: empty paypal order id", entity.ErrInvalidArgument)
	}
	ppOrder, err := s.Paypal.GetOrder(ctx, ppOrderID)
	if err != nil {
		return nil, fmt.Errorf("paypal api get order %s: %w", ppOrderID, err)
	}
	return ppOrder, nil
}

// process must run under the order lock. The order is reloaded so a
// payment recorded by a concurrent webhook is seen.
func (s *checkoutImpl) process(ctx context.Context, orderID uint, ppOrder *entity.Order) error {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if storefront.IsPaid(order.Status) {
		s.log.DebugContext(ctx, "order already paid", slog.Uint64("order_id", uint64(order.ID)))
		return nil
	}

	result := ppOrder
	if ppOrder.Status != entity.OrderStatusCompleted {
		result, err = s.settle(ctx, order, ppOrder)
		if err != nil {
			return err
		}
	}

	var status string
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Meta.AddPayPalMeta(ctx, tx, order, result); err != nil {
			return err
		}
		status, err = s.Meta.ApplyPaymentStatus(ctx, tx, order, result)
		return err
	})
	if err != nil {
		return fmt.Errorf("update order %d: %w", order.ID, err)
	}
	if status == storefront.StatusFailed {
		return ErrPaymentDeclined
	}
	return nil
}

// settle captures or authorizes an order that is not completed yet. The
// processor order must ask for exactly the total held for the order.
func (s *checkoutImpl) settle(ctx context.Context, order *model.Order, ppOrder *entity.Order) (*entity.Order, error) {
	switch ppOrder.Status {
	case entity.OrderStatusApproved:
	case entity.OrderStatusCreated:
		if ppOrder.PaymentSourceName() != entity.PaymentSourceCard {
			return nil, fmt.Errorf("%w: order %s is not approved", entity.ErrInvalidArgument, ppOrder.ID)
		}
	default:
		return nil, fmt.Errorf("%w: order %s is %s", entity.ErrInvalidArgument, ppOrder.ID, ppOrder.Status)
	}

	pu := ppOrder.PurchaseUnit()
	if pu == nil {
		return nil, fmt.Errorf("%w: order %s has no purchase unit", entity.ErrMalformedResponse, ppOrder.ID)
	}
	if err := processor.CheckAmount(order, pu.Amount.Total); err != nil {
		s.log.WarnContext(ctx, "paypal order amount differs from order total",
			slog.String("paypal_order_id", ppOrder.ID), logger.Err(err), logger.Traced(ctx))
		return nil, err
	}

	if err := s.checkThreeDS(ctx, ppOrder); err != nil {
		return nil, err
	}
	if !s.validator.IsValid(ppOrder) {
		return nil, ErrThreeDSFailed
	}

	intent := ppOrder.Intent
	if intent == "" {
		intent = s.settings.Intent
	}

	var (
		result *entity.Order
		err    error
	)
	if strings.EqualFold(intent, entity.IntentAuthorize) {
		result, err = s.Paypal.AuthorizeOrder(ctx, ppOrder.ID)
		if err != nil {
			return nil, fmt.Errorf("paypal api authorize order %s: %w", ppOrder.ID, err)
		}
	} else {
		result, err = s.Paypal.CaptureOrder(ctx, ppOrder.ID)
		if err != nil {
			return nil, fmt.Errorf("paypal api capture order %s: %w", ppOrder.ID, err)
		}
	}
	if result.Status != entity.OrderStatusCompleted {
		return nil, fmt.Errorf("%w: order %s is %s", ErrPaymentDeclined, result.ID, result.Status)
	}
	return result, nil
}

func (s *checkoutImpl) checkThreeDS(ctx context.Context, ppOrder *entity.Order) error {
	if ppOrder.PaymentSourceName() != entity.PaymentSourceCard {
		return nil
	}
	switch s.ThreeDS.ProceedWithOrder(ctx, ppOrder) {
	case threeds.Reject:
		return ErrThreeDSFailed
	case threeds.Retry:
		return ErrThreeDSRetry
	}
	return nil
}

// orderFor resolves the platform order from the custom_id, falling back to
// the processor order id stored in the meta.
func (s *checkoutImpl) orderFor(ctx context.Context, ppOrder *entity.Order) (*model.Order, error) {
	if pu := ppOrder.PurchaseUnit(); pu != nil && pu.CustomID != "" {
		if id, err := strconv.ParseUint(pu.CustomID, 10, 64); err == nil {
			return s.findOrder(ctx, uint(id))
		}
	}

	order, err := s.Orders.FindByPayPalOrderID(ctx, ppOrder.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no order for paypal order %s", entity.ErrNotFound, ppOrder.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("find order by paypal id %s: %w", ppOrder.ID, err)
	}
	return order, nil
}

func (s *checkoutImpl) findOrder(ctx context.Context, orderID uint) (*model.Order, error) {
	order, err := s.Orders.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", entity.ErrNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", orderID, err)
	}
	return order, nil
}

func (s *checkoutImpl) orderReceivedURL(orderID uint) string {
	if s.settings.OrderReceivedURL == "" {
		return s.settings.CheckoutURL
	}
	return fmt.Sprintf(s.settings.OrderReceivedURL, orderID)
}

// fixedAddress reports whether the buyer already entered the address in the shop.
func fixedAddress(checkoutContext string) bool {
	return checkoutContext == factory.ContextCheckout || checkoutContext == factory.ContextPayNow
}

func paymentSource(fundingSource string) string {
	switch fundingSource {
	case entity.PaymentSourceVenmo:
		return entity.PaymentSourceVenmo
	case entity.PaymentSourceCard:
		return entity.PaymentSourceCard
	default:
		return entity.PaymentSourcePayPal
	}
}

func gatewayFor(source string) string {
	if source == entity.PaymentSourceCard {
		return storefront.GatewayCreditCard
	}
	return storefront.GatewayPayPal
}
