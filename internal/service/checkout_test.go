package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"paypal-payments-gateway/internal/client"
	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/factory"
	"paypal-payments-gateway/internal/storefront"
	"paypal-payments-gateway/internal/transient"
	"paypal-payments-gateway/internal/webhook"
)

func TestCheckout_CreateOrderFromCart(t *testing.T) {
	f := setup(t, CheckoutSettings{Intent: "capture"})
	ctx := context.Background()

	var req client.CreateOrderRequest
	f.pp.On("CreateOrder", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { req = args.Get(1).(client.CreateOrderRequest) }).
		Return(&entity.Order{
			ID:     "PP-1",
			Status: entity.OrderStatusCreated,
			Links:  []entity.Link{{Rel: "approve", Href: "https://paypal.test/approve/PP-1"}},
		}, nil)

	res, err := f.checkout.CreateOrder(ctx, CreateOrderInput{
		Context:   factory.ContextCart,
		Cart:      checkoutCart(),
		RequestID: "req-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "PP-1", res.PayPalOrderID)
	assert.Equal(t, "https://paypal.test/approve/PP-1", res.ApprovalURL)
	assert.NotEmpty(t, res.CartDataKey)

	assert.Equal(t, entity.IntentCapture, req.Intent)
	assert.Equal(t, entity.PaymentSourcePayPal, req.PaymentSource)
	assert.Equal(t, "req-1", req.RequestID)
	require.Len(t, req.PurchaseUnits, 1)
	pu := req.PurchaseUnits[0]
	assert.Equal(t, customID(res.OrderID), pu.CustomID)
	assert.Equal(t, "WC-"+customID(res.OrderID), pu.InvoiceID)
	assert.True(t, pu.Amount.Total.Value().Equal(dec("49.99")))

	xc := req.ExperienceContext
	assert.Equal(t, entity.ShippingPreferenceGetFromFile, xc.ShippingPreference())
	assert.Equal(t, entity.UserActionContinue, xc.UserAction())
	assert.Equal(t, "https://shop.test/cart", xc.CancelURL())
	assert.Equal(t, "https://api.shop.test/paypal/return", xc.ReturnURL())
	assert.Equal(t, "en-US", xc.Locale())

	order := f.reload(t, res.OrderID)
	assert.Equal(t, storefront.StatusPending, order.Status)
	assert.Equal(t, "PP-1", order.MetaValue(storefront.MetaPayPalOrderID))
	assert.Len(t, order.Items, 2)

	data, err := f.cartData.Get(ctx, res.CartDataKey)
	require.NoError(t, err)
	assert.Equal(t, "PP-1", data.PayPalOrderID)
	assert.Equal(t, 7, data.UserID)
}

func TestCheckout_CreateOrderPayNow(t *testing.T) {
	f := setup(t, CheckoutSettings{})
	order := f.seedOrder(t, storefront.StatusFailed, nil)

	var req client.CreateOrderRequest
	f.pp.On("CreateOrder", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { req = args.Get(1).(client.CreateOrderRequest) }).
		Return(&entity.Order{ID: "PP-2", Status: entity.OrderStatusCreated}, nil)

	res, err := f.checkout.CreateOrder(context.Background(), CreateOrderInput{
		Context:       factory.ContextPayNow,
		OrderID:       order.ID,
		FundingSource: entity.PaymentSourceVenmo,
	})
	require.NoError(t, err)

	assert.Equal(t, order.ID, res.OrderID)
	assert.Empty(t, res.CartDataKey)
	assert.Equal(t, entity.PaymentSourceVenmo, req.PaymentSource)
	assert.Equal(t, "WC-1001", req.PurchaseUnits[0].InvoiceID)
	assert.Equal(t, entity.ShippingPreferenceNoShipping, req.ExperienceContext.ShippingPreference())
	assert.Equal(t, entity.UserActionPayNow, req.ExperienceContext.UserAction())
	assert.Equal(t, fmt.Sprintf("https://shop.test/order-pay/%d", order.ID), req.ExperienceContext.CancelURL())
	assert.Equal(t, "PP-2", f.reload(t, order.ID).MetaValue(storefront.MetaPayPalOrderID))
}

func TestCheckout_CreateOrderInvalidInput(t *testing.T) {
	f := setup(t, CheckoutSettings{})
	paid := f.seedOrder(t, storefront.StatusProcessing, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateOrderInput
	}{
		{"pay-now without order", CreateOrderInput{Context: factory.ContextPayNow}},
		{"empty cart", CreateOrderInput{Context: factory.ContextCart, Cart: &storefront.Cart{Currency: "USD"}}},
		{"no cart", CreateOrderInput{Context: factory.ContextCheckout}},
		{"paid order", CreateOrderInput{Context: factory.ContextPayNow, OrderID: paid.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.checkout.CreateOrder(ctx, tt.in)
			assert.ErrorIs(t, err, entity.ErrInvalidArgument)
		})
	}

	_, err := f.checkout.CreateOrder(ctx, CreateOrderInput{Context: factory.ContextPayNow, OrderID: 999})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestCheckout_CompleteCapturesApprovedOrder(t *testing.T) {
	f := setup(t, CheckoutSettings{})
	order := f.seedOrder(t, storefront.StatusPending, map[string]string{storefront.MetaPayPalOrderID: "PP-1"})

	f.pp.On("GetOrder", mock.Anything, "PP-1").
		Return(ppOrder("PP-1", entity.OrderStatusApproved, order.ID, nil), nil).Once()
	f.pp.On("CaptureOrder", mock.Anything, "PP-1").
		Return(ppOrder("PP-1", entity.OrderStatusCompleted, order.ID, completedCapture("CAP-1")), nil).Once()

	got, err := f.checkout.Complete(context.Background(), "PP-1")
	require.NoError(t, err)
	assert.Equal(t, storefront.StatusProcessing, got.Status)

	reloaded := f.reload(t, order.ID)
	assert.Equal(t, "CAP-1", reloaded.MetaValue(storefront.MetaTransactionID))
	assert.Equal(t, "true", reloaded.MetaValue(storefront.MetaCaptured))
	assert.Equal(t, "buyer@paypal.test", reloaded.MetaValue(storefront.MetaPayerEmail))
	assert.Equal(t, "sandbox", reloaded.MetaValue(storefront.MetaPaymentMode))
}

func TestCheckout_CompleteRejectsTamperedAmount(t *testing.T) {
	f := setup(t, CheckoutSettings{})
	order := f.seedOrder(t, storefront.StatusPending, map[string]string{storefront.MetaPayPalOrderID: "PP-1"})

	tampered := ppOrder("PP-1", entity.OrderStatusApproved, order.ID, nil)
	tampered.PurchaseUnits[0].Amount = entity.Amount{Total: entity.NewMoney(dec("0.01"), "USD")}
	f.pp.On("GetOrder", mock.Anything, "PP-1").Return(tampered, nil).Once()

	_, err := f.checkout.Complete(context.Background(), "PP-1")
	assert.ErrorIs(t, err, entity.ErrAmountMismatch)
	f.pp.AssertNotCalled(t, "CaptureOrder", mock.Anything, mock.Anything)
	assert.Equal(t, storefront.StatusPending, f.reload(t, order.ID).Status)
}

func TestCheckout_CompleteHoldsMismatchedCapture(t *testing.T) {
	f := setup(t, CheckoutSettings{})
	order := f.seedOrder(t, storefront.StatusPending, map[string]string{storefront.MetaPayPalOrderID: "PP-1"})

	short := &entity.Payments{Captures: []entity.Capture{{ID: "CAP-1", Status: entity.PaymentStatusCompleted, Amount: usd("1.00")}}}
	f.pp.On("GetOrder", mock.Anything, "PP-1").
		Return(ppOrder("PP-1", entity.OrderStatusCompleted, order.ID, short), nil).Once()

	got, err := f.checkout.Complete(context.Background(), "PP-1")
	require.NoError(t, err)
	assert.Equal(t, storefront.StatusOnHold, got.Status)
	assert.Equal(t, "1.00 USD", f.reload(t, order.ID).MetaValue(storefront.MetaAmountMismatch))
}

func TestCheckout_CompleteUsesQuotedTotal(t *testing.T) {
	f := setup(t, CheckoutSettings{})
	order := f.seedOrder(t, storefront.StatusPending, map[string]string{
		storefront.MetaPayPalOrderID: "PP-1",
		storefront.MetaExpectedTotal: "59.99",
	})

	approved := ppOrder("PP-1", entity.OrderStatusApproved, order.ID, nil)
	approved.PurchaseUnits[0].Amount = entity.Amount{Total: entity.NewMoney(dec("59.99"), "USD")}
	captured := ppOrder("PP-1", entity.OrderStatusCompleted, order.ID, &entity.Payments{
		Captures: []entity.Capture{{ID: "CAP-1", Status: entity.PaymentStatusCompleted, Amount: usd("59.99")}},
	})
	f.pp.On("GetOrder", mock.Anything, "PP-1").Return(approved, nil).Once()
	f.pp.On("CaptureOrder", mock.Anything, "PP-1").Return(captured, nil).Once()

	got, err := f.checkout.Complete(context.Background(), "PP-1")
	require.NoError(t, err)
	assert.Equal(t, storefront.StatusProcessing, got.Status)
}

func TestCheckout_CompleteSkipsWhileOrderLocked(t *testing.T) {
	f := setup(t, CheckoutSettings{})
	ctx := context.Background()
	order := f.seedOrder(t, storefront.StatusPending, map[string]string{storefront.MetaPayPalOrderID: "PP-1"})

	release, ok, err := transient.TryLock(ctx, f.store, "order:PP-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	defer release()

	f.pp.On("GetOrder", mock.Anything, "PP-1").
		Return(ppOrder("PP-1", entity.OrderStatusApproved, order.ID, nil), nil).Once()

	_, err = f.checkout.Complete(ctx, "PP-1")
	assert.ErrorIs(t, err, webhook.ErrLockHeld)
	f.pp.AssertNotCalled(t, "CaptureOrder", mock.Anything, mock.Anything)
	assert.Equal(t, storefront.StatusPending, f.reload(t, order.ID).Status)
}

func TestCheckout_CompleteAlreadyPaid(t *testing.T) {
	f := setup(t, CheckoutSettings{})
	order := f.seedOrder(t, storefront.StatusProcessing, map[string]string{storefront.MetaPayPalOrderID: "PP-1"})

	f.pp.On("GetOrder", mock.Anything, "PP-1").
		Return(ppOrder("PP-1", entity.OrderStatusApproved, order.ID, nil), nil).Once()

	got, err := f.checkout.Complete(context.Background(), "PP-1")
	require.NoError(t, err)
	assert.Equal(t, storefront.StatusProcessing, got.Status)
	f.pp.AssertNotCalled(t, "CaptureOrder", mock.Anything, mock.Anything)
}

func TestCheckout_CompleteDeclinedCapture(t *testing.T) {
	f := setup(t, CheckoutSettings{})
	order := f.seedOrder(t, storefront.StatusPending, nil)

	declined := &entity.Payments{Captures: []entity.Capture{{ID: "CAP-D", Status: entity.PaymentStatusDeclined, Amount: usd("49.99")}}}
	f.pp.On("GetOrder", mock.Anything, "PP-1").
		Return(ppOrder("PP-1", entity.OrderStatusApproved, order.ID, nil), nil).Once()
	f.pp.On("CaptureOrder", mock.Anything, "PP-1").
		Return(ppOrder("PP-1", entity.OrderStatusCompleted, order.ID, declined), nil).Once()

	_, err := f.checkout.Complete(context.Background(), "PP-1")
	assert.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Equal(t, MessageDeclined, UserMessage(err))
	assert.Equal(t, storefront.StatusFailed, f.reload(t, order.ID).Status)
}

func TestCheckout_CompleteAuthorizeIntent(t *testing.T) {
	f := setup(t, CheckoutSettings{Intent: "authorize"})
	order := f.seedOrder(t, storefront.StatusPending, nil)

	approved := ppOrder("PP-1", entity.OrderStatusApproved, order.ID, nil)
	approved.Intent = entity.IntentAuthorize
	authorized := ppOrder("PP-1", entity.OrderStatusCompleted, order.ID, &entity.Payments{
		Authorizations: []entity.Authorization{{ID: "AUTH-1", Status: entity.PaymentStatusCreated, Amount: usd("49.99")}},
	})
	authorized.Intent = entity.IntentAuthorize

	f.pp.On("GetOrder", mock.Anything, "PP-1").Return(approved, nil).Once()
	f.pp.On("AuthorizeOrder", mock.Anything, "PP-1").Return(authorized, nil).Once()

	got, err := f.checkout.Complete(context.Background(), "PP-1")
	require.NoError(t, err)
	assert.Equal(t, storefront.StatusOnHold, got.Status)
	assert.Equal(t, entity.IntentAuthorize, f.reload(t, order.ID).MetaValue(storefront.MetaIntent))
}

func TestCheckout_HandleReturnCompletesThreeDSOrder(t *testing.T) {
	f := setup(t, CheckoutSettings{OrderReceivedURL: "https://shop.test/order-received/%d"})
	order := f.seedOrder(t, storefront.StatusPending, nil)

	created := ppOrder("PP-3", entity.OrderStatusCreated, order.ID, nil)
	created.PaymentSource = cardSource(entity.LiabilityShiftPossible, "Y", "Y")
	captured := ppOrder("PP-3", entity.OrderStatusCompleted, order.ID, completedCapture("CAP-3"))
	captured.PaymentSource = created.PaymentSource

	f.pp.On("GetOrder", mock.Anything, "PP-3").Return(created, nil).Once()
	f.pp.On("CaptureOrder", mock.Anything, "PP-3").Return(captured, nil).Once()

	res, err := f.checkout.HandleReturn(context.Background(), "PP-3")
	require.NoError(t, err)
	assert.Equal(t, order.ID, res.OrderID)
	assert.Equal(t, storefront.StatusProcessing, res.Status)
	assert.Equal(t, fmt.Sprintf("https://shop.test/order-received/%d", order.ID), res.RedirectURL)

	reloaded := f.reload(t, order.ID)
	assert.Equal(t, entity.PaymentSourceCard, reloaded.MetaValue(storefront.MetaPaymentSource))
	assert.Empty(t, reloaded.MetaValue(storefront.MetaPayerEmail))
}

func TestCheckout_HandleReturnRejectsFailedThreeDS(t *testing.T) {
	f := setup(t, CheckoutSettings{})
	order := f.seedOrder(t, storefront.StatusPending, nil)

	created := ppOrder("PP-4", entity.OrderStatusCreated, order.ID, nil)
	created.PaymentSource = cardSource(entity.LiabilityShiftNo, "Y", "R")
	f.pp.On("GetOrder", mock.Anything, "PP-4").Return(created, nil).Once()

	_, err := f.checkout.HandleReturn(context.Background(), "PP-4")
	assert.ErrorIs(t, err, ErrThreeDSFailed)
	assert.Equal(t, MessageThreeDSFailed, UserMessage(err))
	f.pp.AssertNotCalled(t, "CaptureOrder", mock.Anything, mock.Anything)
	assert.Equal(t, storefront.StatusPending, f.reload(t, order.ID).Status)
}

func TestCheckout_HandleReturnErrors(t *testing.T) {
	f := setup(t, CheckoutSettings{})
	ctx := context.Background()

	_, err := f.checkout.HandleReturn(ctx, "")
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)

	f.pp.On("GetOrder", mock.Anything, "PP-X").
		Return(ppOrder("PP-X", entity.OrderStatusApproved, 404, nil), nil).Once()
	_, err = f.checkout.HandleReturn(ctx, "PP-X")
	assert.ErrorIs(t, err, entity.ErrNotFound)

	f.pp.On("GetOrder", mock.Anything, "PP-GONE").
		Return(nil, &client.APIError{Status: 404, Name: "RESOURCE_NOT_FOUND"}).Once()
	_, err = f.checkout.HandleReturn(ctx, "PP-GONE")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
}

func TestCheckout_ApproveNeedsThreeDSRetry(t *testing.T) {
	f := setup(t, CheckoutSettings{})

	approved := ppOrder("PP-5", entity.OrderStatusApproved, 1, nil)
	approved.PaymentSource = cardSource(entity.LiabilityShiftUnknown, "Y", "U")
	f.pp.On("GetOrder", mock.Anything, "PP-5").Return(approved, nil).Once()

	_, err := f.checkout.Approve(context.Background(), "PP-5")
	assert.ErrorIs(t, err, ErrThreeDSRetry)
	assert.Equal(t, MessageThreeDSRetry, UserMessage(err))
}

func TestCheckout_ApproveRequiresApproval(t *testing.T) {
	f := setup(t, CheckoutSettings{})

	f.pp.On("GetOrder", mock.Anything, "PP-6").
		Return(ppOrder("PP-6", entity.OrderStatusCreated, 1, nil), nil).Once()
	_, err := f.checkout.Approve(context.Background(), "PP-6")
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)

	f.pp.On("GetOrder", mock.Anything, "PP-7").
		Return(ppOrder("PP-7", entity.OrderStatusApproved, 1, nil), nil).Once()
	got, err := f.checkout.Approve(context.Background(), "PP-7")
	require.NoError(t, err)
	assert.Equal(t, "PP-7", got.ID)
}

func TestCheckout_ProcessApprovedFromWebhook(t *testing.T) {
	f := setup(t, CheckoutSettings{})
	order := f.seedOrder(t, storefront.StatusPending, map[string]string{storefront.MetaPayPalOrderID: "PP-8"})

	f.pp.On("GetOrder", mock.Anything, "PP-8").
		Return(ppOrder("PP-8", entity.OrderStatusApproved, order.ID, nil), nil).Once()
	f.pp.On("CaptureOrder", mock.Anything, "PP-8").
		Return(ppOrder("PP-8", entity.OrderStatusCompleted, order.ID, completedCapture("CAP-8")), nil).Once()

	var approved webhook.ApprovedOrderProcessor = f.checkout
	require.NoError(t, approved.ProcessApproved(context.Background(), order, "PP-8"))
	assert.Equal(t, storefront.StatusProcessing, f.reload(t, order.ID).Status)
}
