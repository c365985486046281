package experience

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"paypal-payments-gateway/internal/storeapi"
)

// ShippingCallbackPath is the route the processor calls for shipping updates.
const ShippingCallbackPath = "/paypal/v1/shipping-callback"

// CallbackURLFactory builds the shipping callback URL for the shopper's cart.
type CallbackURLFactory struct {
	carts   storeapi.CartClient
	signer  *storeapi.TokenSigner
	baseURL string
}

func NewCallbackURLFactory(carts storeapi.CartClient, signer *storeapi.TokenSigner, baseURL string) *CallbackURLFactory {
	return &CallbackURLFactory{carts: carts, signer: signer, baseURL: strings.TrimRight(baseURL, "/")}
}

// Create fetches a cart token for the shopper's session and signs it into the URL.
func (f *CallbackURLFactory) Create(ctx context.Context, cookies []*http.Cookie) (string, error) {
	cart, err := f.carts.GetCart(ctx, cookies)
	if err != nil {
		return "", fmt.Errorf("get store api cart: %w", err)
	}
	if cart.Token == "" {
		return "", fmt.Errorf("store api returned no cart token")
	}
	signed, err := f.signer.Sign(cart.Token)
	if err != nil {
		return "", err
	}
	return f.baseURL + ShippingCallbackPath + "?cart_token=" + url.QueryEscape(signed), nil
}
