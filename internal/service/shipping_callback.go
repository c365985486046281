package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/factory"
	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/repository"
	"paypal-payments-gateway/internal/storeapi"
	"paypal-payments-gateway/internal/storefront"
)

// ErrAddressError means the shop cannot ship to the buyer's address.
var ErrAddressError = errors.New("no shipping rates for address")

type ShippingCallbackRequest struct {
	ID               string
	ReferenceID      string
	ShippingAddress  entity.Address
	ShippingOptionID string
}

type CallbackPurchaseUnit struct {
	ReferenceID     string                  `json:"reference_id"`
	Amount          entity.Amount           `json:"amount"`
	ShippingOptions []entity.ShippingOption `json:"shipping_options"`
}

type ShippingCallbackResponse struct {
	ID            string                 `json:"id"`
	PurchaseUnits []CallbackPurchaseUnit `json:"purchase_units"`
}

//go:generate mockery --name=ShippingCallbackService --output=./mocks --case=camel
type ShippingCallbackService interface {
	Handle(ctx context.Context, signedToken string, req ShippingCallbackRequest) (*ShippingCallbackResponse, error)
}

type shippingCallbackImpl struct {
	carts   storeapi.CartClient
	signer  *storeapi.TokenSigner
	amounts *factory.AmountFactory
	orders  repository.OrderRepository
	log     *slog.Logger
}

func NewShippingCallbackService(
	carts storeapi.CartClient,
	signer *storeapi.TokenSigner,
	amounts *factory.AmountFactory,
	orders repository.OrderRepository,
	log *slog.Logger,
) ShippingCallbackService {
	return &shippingCallbackImpl{
		carts:   carts,
		signer:  signer,
		amounts: amounts,
		orders:  orders,
		log:     log,
	}
}

// Handle applies the buyer's address and option to the shop cart and
// returns the updated amount and shipping options.
func (s *shippingCallbackImpl) Handle(ctx context.Context, signedToken string, req ShippingCallbackRequest) (*ShippingCallbackResponse, error) {
	ctx, span := tracer.Start(ctx, "ShippingCallback.Handle")
	defer span.End()

	cartToken, err := s.signer.Verify(signedToken)
	if err != nil {
		return nil, err
	}

	addr := req.ShippingAddress
	cart, err := s.carts.UpdateCustomer(ctx, cartToken, storeapi.Address{
		Country:  addr.CountryCode,
		State:    addr.AdminArea1,
		City:     addr.AdminArea2,
		Postcode: addr.PostalCode,
	})
	if err != nil {
		return nil, fmt.Errorf("update cart customer: %w", err)
	}
	if len(cart.Rates()) == 0 {
		s.log.DebugContext(ctx, "shipping callback: no shipping rates",
			slog.String("country", addr.CountryCode), logger.Traced(ctx))
		return nil, ErrAddressError
	}

	if req.ShippingOptionID != "" {
		cart, err = s.carts.SelectShippingRate(ctx, cartToken, 0, req.ShippingOptionID)
		if err != nil {
			return nil, fmt.Errorf("select shipping rate: %w", err)
		}
	}

	amount, err := s.amounts.FromStoreAPICart(cart.Totals)
	if err != nil {
		return nil, err
	}
	if err := s.expectTotal(ctx, req.ID, amount.Total); err != nil {
		return nil, err
	}

	options := make([]entity.ShippingOption, 0, len(cart.Rates()))
	for _, rate := range cart.Rates() {
		opt, err := rate.ToPayPal()
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}

	return &ShippingCallbackResponse{
		ID: req.ID,
		PurchaseUnits: []CallbackPurchaseUnit{{
			ReferenceID:     req.ReferenceID,
			Amount:          amount,
			ShippingOptions: options,
		}},
	}, nil
}

// expectTotal keeps the total quoted from the shop cart on the order, so the
// capture is checked against it instead of the total the order was created
// with.
func (s *shippingCallbackImpl) expectTotal(ctx context.Context, ppOrderID string, total entity.Money) error {
	if ppOrderID == "" {
		return nil
	}
	order, err := s.orders.FindByPayPalOrderID(ctx, ppOrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.WarnContext(ctx, "shipping callback: no order for paypal order",
			slog.String("paypal_order_id", ppOrderID), logger.Traced(ctx))
		return nil
	}
	if err != nil {
		return fmt.Errorf("find order by paypal id %s: %w", ppOrderID, err)
	}
	err = s.orders.SetMeta(ctx, nil, order.ID, map[string]string{
		storefront.MetaExpectedTotal: total.FormattedValue(),
	})
	if err != nil {
		return fmt.Errorf("store expected total: %w", err)
	}
	return nil
}
