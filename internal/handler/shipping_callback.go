package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"paypal-payments-gateway/internal/client"
	"paypal-payments-gateway/internal/dto"
	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/service"
	"paypal-payments-gateway/internal/storeapi"
)

type ShippingCallbackHandler struct {
	callbacks service.ShippingCallbackService
	log       *slog.Logger
}

func NewShippingCallbackHandler(callbacks service.ShippingCallbackService, log *slog.Logger) *ShippingCallbackHandler {
	return &ShippingCallbackHandler{
		callbacks: callbacks,
		log:       log,
	}
}

// Handle answers the processor's shipping change callback. The processor
// shows an address error to the buyer on 422 ADDRESS_ERROR.
func (h *ShippingCallbackHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ShippingCallbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.callbacks.Handle(ctx, c.QueryParam("cart_token"), service.ShippingCallbackRequest{
		ID:               req.ID,
		ReferenceID:      req.ReferenceID(),
		ShippingAddress:  *req.ShippingAddress,
		ShippingOptionID: req.ShippingOptionID(),
	})
	switch {
	case errors.Is(err, service.ErrAddressError):
		return c.JSON(http.StatusUnprocessableEntity, &dto.ErrorResponse{
			Name:    "UNPROCESSABLE_ENTITY",
			Details: []client.IssueDetail{{Issue: "ADDRESS_ERROR"}},
		})
	case errors.Is(err, storeapi.ErrInvalidCartToken):
		h.log.WarnContext(ctx, "shipping callback with invalid cart token", logger.Err(err), logger.Traced(ctx))
		return echo.NewHTTPError(http.StatusForbidden, "invalid cart token")
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, res)
}
