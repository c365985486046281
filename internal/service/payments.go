package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/processor"
	"paypal-payments-gateway/internal/repository"
	"paypal-payments-gateway/internal/storefront"
	"paypal-payments-gateway/internal/webhook"
)

// PaymentService runs the merchant's payment actions on placed orders.
//go:generate mockery --name=PaymentService --output=./mocks --case=camel
type PaymentService interface {
	Capture(ctx context.Context, orderID uint) error
	Reauthorize(ctx context.Context, orderID uint) (*entity.Authorization, error)
	Refund(ctx context.Context, orderID uint, amount decimal.Decimal, reason string) (string, error)
	Void(ctx context.Context, orderID uint) error
}

type paymentServiceImpl struct {
	orders       repository.OrderRepository
	authorized   *processor.AuthorizedPayments
	refunds      *processor.Refunds
	orchestrator *webhook.Orchestrator
	log          *slog.Logger
}

func NewPaymentService(
	orders repository.OrderRepository,
	authorized *processor.AuthorizedPayments,
	refunds *processor.Refunds,
	orchestrator *webhook.Orchestrator,
	log *slog.Logger,
) PaymentService {
	return &paymentServiceImpl{
		orders:       orders,
		authorized:   authorized,
		refunds:      refunds,
		orchestrator: orchestrator,
		log:          log,
	}
}

func (s *paymentServiceImpl) Capture(ctx context.Context, orderID uint) error {
	return s.withOrderLock(ctx, orderID, "capture", func(ctx context.Context) error {
		return s.authorized.Capture(ctx, orderID)
	})
}

func (s *paymentServiceImpl) Reauthorize(ctx context.Context, orderID uint) (*entity.Authorization, error) {
	var auth *entity.Authorization
	err := s.withOrderLock(ctx, orderID, "reauthorize", func(ctx context.Context) error {
		var err error
		auth, err = s.authorized.Reauthorize(ctx, orderID)
		return err
	})
	return auth, err
}

func (s *paymentServiceImpl) Refund(ctx context.Context, orderID uint, amount decimal.Decimal, reason string) (string, error) {
	var refundID string
	err := s.withOrderLock(ctx, orderID, "refund", func(ctx context.Context) error {
		var err error
		refundID, err = s.refunds.Refund(ctx, orderID, amount, reason)
		return err
	})
	return refundID, err
}

func (s *paymentServiceImpl) Void(ctx context.Context, orderID uint) error {
	return s.withOrderLock(ctx, orderID, "void", func(ctx context.Context) error {
		return s.refunds.Void(ctx, orderID)
	})
}

// withOrderLock shares the lock with webhook handlers of the same processor order.
func (s *paymentServiceImpl) withOrderLock(ctx context.Context, orderID uint, action string, op func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "Payments."+action)
	defer span.End()

	ppOrderID, err := s.orders.GetMeta(ctx, orderID, storefront.MetaPayPalOrderID)
	if err != nil {
		return fmt.Errorf("get paypal order id of order %d: %w", orderID, err)
	}
	lockID := ppOrderID
	if lockID == "" {
		lockID = fmt.Sprintf("platform-%d", orderID)
	}

	if err := s.orchestrator.WithOrderLock(ctx, lockID, action, op); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "payment action done",
		slog.String("action", action), slog.Uint64("order_id", uint64(orderID)), logger.Traced(ctx))
	return nil
}
