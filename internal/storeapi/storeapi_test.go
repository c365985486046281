package storeapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paypal-payments-gateway/internal/entity"
)

func TestMoney_Decimal(t *testing.T) {
	tests := []struct {
		value string
		minor int32
		want  string
	}{
		{"4999", 2, "49.99"},
		{"500", 0, "500"},
		{"12345", 3, "12.345"},
		{"", 2, "0"},
	}
	for _, tt := range tests {
		got, err := Money{Value: tt.value, CurrencyCode: "USD", CurrencyMinorUnit: tt.minor}.Decimal()
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "%s/%d -> %s", tt.value, tt.minor, got)
	}

	_, err := Money{Value: "abc", CurrencyMinorUnit: 2}.Decimal()
	assert.Error(t, err)
}

func TestShippingRate_ToPayPal(t *testing.T) {
	opt, err := ShippingRate{
		RateID:            "flat_rate:1",
		Name:              "Flat rate",
		Price:             "500",
		Selected:          true,
		CurrencyCode:      "USD",
		CurrencyMinorUnit: 2,
	}.ToPayPal()
	require.NoError(t, err)

	assert.Equal(t, "flat_rate:1", opt.ID)
	assert.Equal(t, entity.ShippingOptionShipping, opt.Type)
	assert.True(t, opt.Selected)
	assert.Equal(t, "5.00", opt.Amount.FormattedValue())
}

func TestTokenSigner_RoundTrip(t *testing.T) {
	signer := NewTokenSigner("secret", time.Hour)

	signed, err := signer.Sign("cart-token-123")
	require.NoError(t, err)

	token, err := signer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "cart-token-123", token)
}

func TestTokenSigner_RejectsTamperedAndExpired(t *testing.T) {
	signer := NewTokenSigner("secret", time.Minute)
	signed, err := signer.Sign("cart-token-123")
	require.NoError(t, err)

	_, err = NewTokenSigner("other", time.Minute).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidCartToken)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = signer.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidCartToken)
}

func TestCartClient_UpdateCustomer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wc/store/v1/cart/update-customer", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("Cart-Token"))

		var body map[string]Address
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "US", body["shipping_address"].Country)

		w.Header().Set("Cart-Token", "tok2")
		_, _ = io.WriteString(w, `{
			"needs_shipping": true,
			"shipping_rates": [{"package_id":0,"shipping_rates":[
				{"rate_id":"flat_rate:1","name":"Flat","price":"500","selected":true,"currency_code":"USD","currency_minor_unit":2}
			]}],
			"totals": {"total_items":"1000","total_shipping":"500","total_tax":"0","total_discount":"0","total_price":"1500","currency_code":"USD","currency_minor_unit":2}
		}`)
	}))
	defer srv.Close()

	c := NewCartClient(srv.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))
	cart, err := c.UpdateCustomer(context.Background(), "tok", Address{Country: "US"})
	require.NoError(t, err)

	assert.Equal(t, "tok2", cart.Token)
	require.Len(t, cart.Rates(), 1)
	price, err := cart.Totals.Price().Decimal()
	require.NoError(t, err)
	assert.Equal(t, "15", price.String())
}
