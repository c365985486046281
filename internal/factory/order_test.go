package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/storefront"
)

func newOrderFactory(t *testing.T) *OrderFactory {
	return NewOrderFactory(newPurchaseUnitFactory(t))
}

func TestOrderFactory_FromResponse(t *testing.T) {
	order, err := newOrderFactory(t).FromResponse([]byte(`{
		"id":"5O190127TN364715T",
		"status":"COMPLETED",
		"intent":"AUTHORIZE",
		"create_time":"2024-05-01T10:00:00Z",
		"payment_source":{"venmo":{"email_address":"v@example.com"},"paypal":{}},
		"payer":{"payer_id":"PAYER1","email_address":"buyer@example.com"},
		"purchase_units":[{"reference_id":"default","amount":{"currency_code":"USD","value":"10.00"}}],
		"links":[{"href":"https://paypal.test/approve","rel":"payer-action","method":"GET"}]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "5O190127TN364715T", order.ID)
	assert.Equal(t, entity.OrderStatusCompleted, order.Status)
	assert.Equal(t, entity.IntentAuthorize, order.Intent)
	require.NotNil(t, order.PaymentSource)
	assert.Equal(t, entity.PaymentSourceVenmo, order.PaymentSource.Name)
	assert.Equal(t, "v@example.com", order.PaymentSource.EmailAddress())
	assert.Equal(t, "PAYER1", order.Payer.PayerID)
	require.NotNil(t, order.CreateTime)
	assert.Nil(t, order.UpdateTime)
	assert.Len(t, order.PurchaseUnits, 1)
	assert.Equal(t, "https://paypal.test/approve", order.ApprovalURL())
}

func TestOrderFactory_Defaults(t *testing.T) {
	order, err := newOrderFactory(t).FromResponse([]byte(`{
		"id":"ORDER-1",
		"purchase_units":[{"reference_id":"default"}]
	}`))
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusPayerActionRequired, order.Status)
	assert.Equal(t, entity.IntentCapture, order.Intent)
	assert.Nil(t, order.PaymentSource)
	assert.Empty(t, order.PurchaseUnits)
}

func TestOrderFactory_Errors(t *testing.T) {
	f := newOrderFactory(t)

	_, err := f.FromResponse([]byte(`{"status":"CREATED"}`))
	assert.ErrorIs(t, err, entity.ErrMalformedResponse)

	_, err = f.FromResponse([]byte(`{"id":"X","purchase_units":[{"amount":{"currency_code":"USD","value":"1"}}]}`))
	assert.ErrorIs(t, err, entity.ErrMalformedResponse)

	_, err = f.FromResponse([]byte(`not json`))
	assert.ErrorIs(t, err, entity.ErrMalformedResponse)
}

func TestReturnURLFactory_FromContext(t *testing.T) {
	f := NewReturnURLFactory("https://shop.test/cart", "https://shop.test/checkout", func(id uint) string {
		return "https://shop.test/pay/" + map[uint]string{9: "9"}[id]
	})
	cart := &storefront.Cart{Items: []storefront.LineItem{{Name: "Mug", URL: "https://shop.test/mug"}}}

	for _, ctx := range []string{ContextCart, ContextCartBlock, ContextMiniCart} {
		url, err := f.FromContext(ctx, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "https://shop.test/cart", url)
	}

	url, err := f.FromContext(ContextProduct, cart, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.test/mug", url)

	_, err = f.FromContext(ContextProduct, &storefront.Cart{}, nil)
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)

	url, err = f.FromContext(ContextPayNow, nil, &storefront.Order{ID: 9})
	require.NoError(t, err)
	assert.Equal(t, "https://shop.test/pay/9", url)

	_, err = f.FromContext(ContextPayNow, nil, nil)
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)

	url, err = f.FromContext(ContextCheckout, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.test/checkout", url)
}
