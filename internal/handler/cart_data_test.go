package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"paypal-payments-gateway/internal/dto"
	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/service/mocks"
	"paypal-payments-gateway/internal/session"
	"paypal-payments-gateway/internal/storefront"
)

func TestCartDataHandler(t *testing.T) {
	carts := mocks.NewCartResumeService(t)
	h := NewCartDataHandler(carts)
	e := newEcho()
	e.POST("/api/paypal/cart-data", h.Save)
	e.GET("/api/paypal/cart-data/:key", h.Load)

	carts.On("Save", mock.Anything, mock.MatchedBy(func(cart *storefront.Cart) bool {
		return cart.Currency == "EUR" && len(cart.Items) == 1 && cart.Items[0].SKU == "MUG-1"
	}), "PP-9").Return("key-1", nil).Once()
	carts.On("Load", mock.Anything, "key-1").Return(&session.CartData{
		Key:           "key-1",
		Items:         []storefront.LineItem{{Name: "Mug", SKU: "MUG-1", Quantity: 1}},
		PayPalOrderID: "PP-9",
	}, nil).Once()
	carts.On("Load", mock.Anything, "key-1").
		Return(nil, fmt.Errorf("%w: cart data %q", entity.ErrNotFound, "key-1")).Once()

	rec := serve(e, http.MethodPost, "/api/paypal/cart-data", `{
		"cart": {"currency": "EUR", "items": [{"name": "Mug", "sku": "MUG-1", "quantity": 1, "unit_price": "8.50"}]},
		"paypal_order_id": "PP-9"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var saved dto.CartDataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "key-1", saved.Key)

	rec = serve(e, http.MethodGet, "/api/paypal/cart-data/key-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var data session.CartData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, "PP-9", data.PayPalOrderID)
	assert.Len(t, data.Items, 1)

	rec = serve(e, http.MethodGet, "/api/paypal/cart-data/key-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(e, http.MethodPost, "/api/paypal/cart-data", `{"paypal_order_id": "PP-9"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
