package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"paypal-payments-gateway/internal/dto"
	"paypal-payments-gateway/internal/service"
)

type CartDataHandler struct {
	carts service.CartResumeService
}

func NewCartDataHandler(carts service.CartResumeService) *CartDataHandler {
	return &CartDataHandler{carts: carts}
}

func (h *CartDataHandler) Save(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CartDataRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	key, err := h.carts.Save(ctx, req.Cart, req.PayPalOrderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, &dto.CartDataResponse{Key: key})
}

// Load returns the snapshot once; it is gone afterwards.
func (h *CartDataHandler) Load(c echo.Context) error {
	ctx := c.Request().Context()

	data, err := h.carts.Load(ctx, c.Param("key"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, data)
}
