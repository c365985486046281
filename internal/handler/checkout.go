package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"paypal-payments-gateway/internal/dto"
	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/service"
	"paypal-payments-gateway/internal/webhook"
)

const requestIDHeader = "PayPal-Request-Id"

type CheckoutHandler struct {
	checkout    service.CheckoutService
	checkoutURL string
	log         *slog.Logger
}

// NewCheckoutHandler builds the handler. checkoutURL receives the buyer
// when the return from the processor fails.
func NewCheckoutHandler(checkout service.CheckoutService, checkoutURL string, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout:    checkout,
		checkoutURL: checkoutURL,
		log:         log,
	}
}

func (h *CheckoutHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	requestID := c.Request().Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = c.Response().Header().Get(echo.HeaderXRequestID)
	}

	result, err := h.checkout.CreateOrder(ctx, service.CreateOrderInput{
		Context:       req.Context,
		FundingSource: req.FundingSource,
		Cart:          req.Cart,
		OrderID:       req.OrderID,
		Locale:        req.Locale,
		Cookies:       c.Cookies(),
		RequestID:     requestID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *CheckoutHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.checkout.GetOrder(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

func (h *CheckoutHandler) Approve(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.checkout.Approve(ctx, c.Param("id"))
	if err != nil {
		return h.paymentFailed(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

func (h *CheckoutHandler) Complete(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.checkout.Complete(ctx, c.Param("id"))
	if err != nil {
		return h.paymentFailed(c, err)
	}

	return c.JSON(http.StatusOK, &dto.CompleteOrderResponse{
		OrderID: order.ID,
		Status:  order.Status,
	})
}

// Return is where the processor sends the buyer back after approval or a
// 3-D Secure challenge.
func (h *CheckoutHandler) Return(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.QueryParam("token")
	if token == "" {
		return c.Redirect(http.StatusFound, h.failureURL(service.MessageOrderMissing))
	}

	result, err := h.checkout.HandleReturn(ctx, token)
	if err != nil {
		msg := service.UserMessage(err)
		if errors.Is(err, entity.ErrNotFound) {
			msg = service.MessageOrderMissing
		}
		return c.Redirect(http.StatusFound, h.failureURL(msg))
	}

	return c.Redirect(http.StatusFound, result.RedirectURL)
}

// paymentFailed turns processor and 3-D Secure failures into a notice the
// checkout page shows; caller errors keep their status.
func (h *CheckoutHandler) paymentFailed(c echo.Context, err error) error {
	if errors.Is(err, entity.ErrInvalidArgument) || errors.Is(err, entity.ErrNotFound) ||
		errors.Is(err, entity.ErrAmountMismatch) || errors.Is(err, webhook.ErrLockHeld) {
		return err
	}

	ctx := c.Request().Context()
	h.log.WarnContext(ctx, "payment failed",
		slog.String("paypal_order_id", c.Param("id")), logger.Err(err), logger.Traced(ctx))
	return c.JSON(http.StatusUnprocessableEntity, &dto.ErrorResponse{
		Name:    "PAYMENT_FAILED",
		Message: service.UserMessage(err),
	})
}

func (h *CheckoutHandler) failureURL(message string) string {
	u, err := url.Parse(h.checkoutURL)
	if err != nil {
		return h.checkoutURL
	}
	q := u.Query()
	q.Set("ppcp_error", "1")
	q.Set("ppcp_message", message)
	u.RawQuery = q.Encode()
	return u.String()
}
