package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"paypal-payments-gateway/internal/client"
	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/model"
	"paypal-payments-gateway/internal/repository"
	"paypal-payments-gateway/internal/storefront"
)

func findOrder(ctx context.Context, orders repository.OrderRepository, orderID uint) (*model.Order, error) {
	order, err := orders.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %d: %w", orderID, entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", orderID, err)
	}
	return order, nil
}

// paypalOrder fetches the processor order referenced by the order meta.
func paypalOrder(ctx context.Context, pp client.PaypalClient, order *model.Order) (*entity.Order, error) {
	ppOrderID := order.ToStorefront().MetaValue(storefront.MetaPayPalOrderID)
	if ppOrderID == "" {
		return nil, fmt.Errorf("%w: paypal order id not found in meta of order %d", entity.ErrInvalidArgument, order.ID)
	}
	ppOrder, err := pp.GetOrder(ctx, ppOrderID)
	if err != nil {
		return nil, fmt.Errorf("get paypal order %s: %w", ppOrderID, err)
	}
	return ppOrder, nil
}

// loadOrders returns the platform order and its processor order.
func loadOrders(ctx context.Context, orders repository.OrderRepository, pp client.PaypalClient, orderID uint) (*model.Order, *entity.Order, error) {
	order, err := findOrder(ctx, orders, orderID)
	if err != nil {
		return nil, nil, err
	}
	ppOrder, err := paypalOrder(ctx, pp, order)
	if err != nil {
		return nil, nil, err
	}
	return order, ppOrder, nil
}

// checkAuthorized rejects orders that were not authorized or are captured already.
func checkAuthorized(order *model.Order, action string) error {
	sf := order.ToStorefront()
	if strings.ToUpper(sf.MetaValue(storefront.MetaIntent)) != entity.IntentAuthorize {
		return fmt.Errorf("%w: only orders with authorize intent can be %s", entity.ErrInvalidArgument, action)
	}
	if captured, _ := strconv.ParseBool(sf.MetaValue(storefront.MetaCaptured)); captured {
		return fmt.Errorf("%w: the order is already captured", entity.ErrInvalidArgument)
	}
	return nil
}

type AuthorizedPayments struct {
	db     *gorm.DB
	pp     client.PaypalClient
	orders repository.OrderRepository
	meta   *OrderMeta
	log    *slog.Logger
}

func NewAuthorizedPayments(db *gorm.DB, pp client.PaypalClient, orders repository.OrderRepository, meta *OrderMeta, log *slog.Logger) *AuthorizedPayments {
	return &AuthorizedPayments{
		db:     db,
		pp:     pp,
		orders: orders,
		meta:   meta,
		log:    log,
	}
}

// Capture captures every open authorization of the order.
func (p *AuthorizedPayments) Capture(ctx context.Context, orderID uint) error {
	order, err := findOrder(ctx, p.orders, orderID)
	if err != nil {
		return err
	}
	if err := checkAuthorized(order, "captured"); err != nil {
		return err
	}
	ppOrder, err := paypalOrder(ctx, p.pp, order)
	if err != nil {
		return err
	}

	var captures []entity.Capture
	alreadyCaptured := false
	for _, auth := range ppOrder.Authorizations() {
		switch auth.Status {
		case entity.PaymentStatusCreated, entity.PaymentStatusPending:
			capture, err := p.pp.CaptureAuthorization(ctx, auth.ID, nil, true)
			if err != nil {
				return fmt.Errorf("capture authorization %s: %w", auth.ID, err)
			}
			captures = append(captures, *capture)
		case entity.PaymentStatusCaptured:
			alreadyCaptured = true
		}
	}
	if len(captures) == 0 && !alreadyCaptured {
		return fmt.Errorf("%w: order %d has no authorization to capture", entity.ErrInvalidArgument, orderID)
	}

	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if alreadyCaptured && len(captures) == 0 {
			return p.orders.SetMeta(ctx, tx, orderID, map[string]string{storefront.MetaCaptured: "true"})
		}
		for _, c := range captures {
			if err := p.meta.AddCaptureMeta(ctx, tx, orderID, c); err != nil {
				return err
			}
		}
		target := storefront.StatusOnHold
		if captures[0].Status == entity.PaymentStatusCompleted {
			target = storefront.StatusProcessing
		}
		if _, err := p.meta.Transition(ctx, tx, order, AwaitingPayment, target, ppOrder.ID); err != nil {
			return err
		}
		p.log.InfoContext(ctx, "authorized payment captured",
			slog.Uint64("order_id", uint64(orderID)), slog.String("status", target), logger.Traced(ctx))
		return nil
	})
}

// Reauthorize renews the first open authorization for its full amount.
func (p *AuthorizedPayments) Reauthorize(ctx context.Context, orderID uint) (*entity.Authorization, error) {
	order, err := findOrder(ctx, p.orders, orderID)
	if err != nil {
		return nil, err
	}
	if err := checkAuthorized(order, "reauthorized"); err != nil {
		return nil, err
	}
	ppOrder, err := paypalOrder(ctx, p.pp, order)
	if err != nil {
		return nil, err
	}

	for _, auth := range ppOrder.Authorizations() {
		if auth.Status != entity.PaymentStatusCreated && auth.Status != entity.PaymentStatusPending {
			continue
		}
		if auth.Amount == nil {
			return nil, fmt.Errorf("%w: authorization %s has no amount", entity.ErrMalformedResponse, auth.ID)
		}
		renewed, err := p.pp.ReauthorizeAuthorization(ctx, auth.ID, *auth.Amount)
		if err != nil {
			return nil, fmt.Errorf("reauthorize %s: %w", auth.ID, err)
		}
		p.log.InfoContext(ctx, "authorization renewed",
			slog.Uint64("order_id", uint64(orderID)), slog.String("authorization_id", renewed.ID), logger.Traced(ctx))
		return renewed, nil
	}
	return nil, fmt.Errorf("%w: order %d has no authorization to reauthorize", entity.ErrInvalidArgument, orderID)
}
