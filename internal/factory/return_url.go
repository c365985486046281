package factory

import (
	"fmt"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/storefront"
)

// Checkout contexts sent by the buttons.
const (
	ContextCart      = "cart"
	ContextCartBlock = "cart-block"
	ContextMiniCart  = "mini-cart"
	ContextProduct   = "product"
	ContextCheckout  = "checkout"
	ContextPayNow    = "pay-now"
)

// ReturnURLFactory picks where the buyer lands after cancelling.
type ReturnURLFactory struct {
	cartURL     string
	checkoutURL string
	paymentURL  func(orderID uint) string
}

func NewReturnURLFactory(cartURL, checkoutURL string, paymentURL func(orderID uint) string) *ReturnURLFactory {
	return &ReturnURLFactory{cartURL: cartURL, checkoutURL: checkoutURL, paymentURL: paymentURL}
}

// FromContext resolves the URL for a context. The cart is needed for
// product pages and the order for pay-now.
func (f *ReturnURLFactory) FromContext(checkoutContext string, cart *storefront.Cart, order *storefront.Order) (string, error) {
	switch checkoutContext {
	case ContextCart, ContextCartBlock, ContextMiniCart:
		return f.cartURL, nil
	case ContextProduct:
		if cart == nil || len(cart.Items) == 0 || cart.Items[0].URL == "" {
			return "", fmt.Errorf("%w: product url not found", entity.ErrInvalidArgument)
		}
		return cart.Items[0].URL, nil
	case ContextPayNow:
		if order == nil || order.ID == 0 {
			return "", fmt.Errorf("%w: order not found", entity.ErrInvalidArgument)
		}
		return f.paymentURL(order.ID), nil
	default:
		return f.checkoutURL, nil
	}
}
