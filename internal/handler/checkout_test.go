package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"paypal-payments-gateway/internal/client"
	"paypal-payments-gateway/internal/dto"
	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/model"
	"paypal-payments-gateway/internal/service"
	"paypal-payments-gateway/internal/service/mocks"
	"paypal-payments-gateway/internal/storefront"
	"paypal-payments-gateway/internal/webhook"
)

const cartBody = `{
	"context": "cart",
	"funding_source": "paypal",
	"cart": {
		"currency": "USD",
		"items": [{"name": "T-Shirt", "quantity": 2, "unit_price": "20.00"}],
		"total": "40.00"
	}
}`

func setupCheckout(t *testing.T) (*mocks.CheckoutService, *echo.Echo) {
	t.Helper()
	checkout := mocks.NewCheckoutService(t)
	h := NewCheckoutHandler(checkout, "https://shop.test/checkout", discard())

	e := newEcho()
	e.POST("/api/paypal/orders", h.CreateOrder)
	e.GET("/api/paypal/orders/:id", h.GetOrder)
	e.POST("/api/paypal/orders/:id/approve", h.Approve)
	e.POST("/api/paypal/orders/:id/complete", h.Complete)
	e.GET("/paypal/return", h.Return)
	return checkout, e
}

func TestCheckoutHandler_CreateOrder(t *testing.T) {
	checkout, e := setupCheckout(t)

	checkout.On("CreateOrder", mock.Anything, mock.MatchedBy(func(in service.CreateOrderInput) bool {
		return in.Context == "cart" &&
			in.FundingSource == "paypal" &&
			in.Cart != nil && in.Cart.Currency == "USD" && len(in.Cart.Items) == 1 &&
			in.RequestID == "req-1"
	})).Return(&service.CreateOrderResult{
		OrderID:       12,
		PayPalOrderID: "PP-1",
		Status:        entity.OrderStatusCreated,
		ApprovalURL:   "https://paypal.test/approve",
	}, nil).Once()

	rec := serve(e, http.MethodPost, "/api/paypal/orders", cartBody, "PayPal-Request-Id", "req-1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got service.CreateOrderResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "PP-1", got.PayPalOrderID)
	assert.Equal(t, uint(12), got.OrderID)
	assert.Equal(t, "https://paypal.test/approve", got.ApprovalURL)
}

func TestCheckoutHandler_CreateOrderInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no cart nor order", `{"context": "cart"}`},
		{"unknown context", `{"context": "basket", "order_id": 3}`},
		{"empty items", `{"context": "cart", "cart": {"currency": "USD", "items": []}}`},
		{"bad currency", `{"context": "cart", "cart": {"currency": "US", "items": [{"name": "A", "quantity": 1}]}}`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkout, e := setupCheckout(t)

			rec := serve(e, http.MethodPost, "/api/paypal/orders", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			checkout.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
		})
	}
}

func TestCheckoutHandler_GetOrder(t *testing.T) {
	checkout, e := setupCheckout(t)

	checkout.On("GetOrder", mock.Anything, "PP-1").Return(&entity.Order{
		ID:     "PP-1",
		Intent: entity.IntentCapture,
		Status: entity.OrderStatusApproved,
	}, nil).Once()
	checkout.On("GetOrder", mock.Anything, "PP-404").Return(nil, fmt.Errorf("paypal api get order PP-404: %w", &client.APIError{
		Status:  http.StatusNotFound,
		Name:    "RESOURCE_NOT_FOUND",
		Message: "The specified resource does not exist.",
		Details: []client.IssueDetail{{Issue: "INVALID_RESOURCE_ID"}},
	})).Once()

	rec := serve(e, http.MethodGet, "/api/paypal/orders/PP-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var order map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "PP-1", order["id"])
	assert.Equal(t, "APPROVED", order["status"])

	rec = serve(e, http.MethodGet, "/api/paypal/orders/PP-404", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	var apiErr dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "RESOURCE_NOT_FOUND", apiErr.Name)
	require.Len(t, apiErr.Details, 1)
	assert.Equal(t, "INVALID_RESOURCE_ID", apiErr.Details[0].Issue)
}

func TestCheckoutHandler_Complete(t *testing.T) {
	checkout, e := setupCheckout(t)

	checkout.On("Complete", mock.Anything, "PP-1").
		Return(&model.Order{ID: 12, Status: storefront.StatusProcessing}, nil).Once()
	checkout.On("Complete", mock.Anything, "PP-2").
		Return(nil, fmt.Errorf("%w: order PP-2 is DECLINED", service.ErrPaymentDeclined)).Once()
	checkout.On("Complete", mock.Anything, "PP-3").
		Return(nil, fmt.Errorf("order PP-3: %w", webhook.ErrLockHeld)).Once()
	checkout.On("Complete", mock.Anything, "PP-4").
		Return(nil, fmt.Errorf("%w: order PP-4 is CREATED", entity.ErrInvalidArgument)).Once()
	checkout.On("Complete", mock.Anything, "PP-5").
		Return(nil, fmt.Errorf("%w: paypal amount 0.01 USD", entity.ErrAmountMismatch)).Once()

	rec := serve(e, http.MethodPost, "/api/paypal/orders/PP-1/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var done dto.CompleteOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &done))
	assert.Equal(t, dto.CompleteOrderResponse{OrderID: 12, Status: storefront.StatusProcessing}, done)

	rec = serve(e, http.MethodPost, "/api/paypal/orders/PP-2/complete", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var failed dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failed))
	assert.Equal(t, "PAYMENT_FAILED", failed.Name)
	assert.Equal(t, service.MessageDeclined, failed.Message)

	rec = serve(e, http.MethodPost, "/api/paypal/orders/PP-3/complete", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = serve(e, http.MethodPost, "/api/paypal/orders/PP-4/complete", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, http.MethodPost, "/api/paypal/orders/PP-5/complete", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	var mismatch dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mismatch))
	assert.Equal(t, "AMOUNT_MISMATCH", mismatch.Name)
}

func TestCheckoutHandler_ApproveNeedsThreeDSRetry(t *testing.T) {
	checkout, e := setupCheckout(t)

	checkout.On("Approve", mock.Anything, "PP-1").Return(nil, service.ErrThreeDSRetry).Once()

	rec := serve(e, http.MethodPost, "/api/paypal/orders/PP-1/approve", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var failed dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failed))
	assert.Equal(t, service.MessageThreeDSRetry, failed.Message)
}

func TestCheckoutHandler_Return(t *testing.T) {
	checkout, e := setupCheckout(t)

	checkout.On("HandleReturn", mock.Anything, "PP-1").Return(&service.ReturnResult{
		OrderID:     12,
		Status:      storefront.StatusProcessing,
		RedirectURL: "https://shop.test/order-received/12",
	}, nil).Once()
	checkout.On("HandleReturn", mock.Anything, "PP-2").Return(nil, service.ErrThreeDSFailed).Once()
	checkout.On("HandleReturn", mock.Anything, "PP-3").
		Return(nil, fmt.Errorf("%w: no order for paypal order PP-3", entity.ErrNotFound)).Once()

	rec := serve(e, http.MethodGet, "/paypal/return?token=PP-1", "")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://shop.test/order-received/12", rec.Header().Get("Location"))

	tests := []struct {
		target string
		want   string
	}{
		{"/paypal/return?token=PP-2", service.MessageThreeDSFailed},
		{"/paypal/return?token=PP-3", service.MessageOrderMissing},
		{"/paypal/return", service.MessageOrderMissing},
	}
	for _, tt := range tests {
		rec := serve(e, http.MethodGet, tt.target, "")
		require.Equal(t, http.StatusFound, rec.Code, tt.target)

		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/checkout", loc.Path)
		assert.Equal(t, "1", loc.Query().Get("ppcp_error"))
		assert.Equal(t, tt.want, loc.Query().Get("ppcp_message"), tt.target)
	}
}
