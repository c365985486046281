package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"paypal-payments-gateway/internal/dto"
	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/service"
	"paypal-payments-gateway/internal/webhook"
)

type WebhookRegistry interface {
	Register(ctx context.Context) bool
	Unregister(ctx context.Context) bool
	Registered(ctx context.Context) (*webhook.Record, error)
	List(ctx context.Context) ([]entity.Webhook, error)
}

type WebhookDiagnostics interface {
	LastEvent(ctx context.Context) (*webhook.LastEvent, error)
	Simulation(ctx context.Context) (*webhook.SimulationStatus, error)
	Simulate(ctx context.Context, webhookID string) (*webhook.SimulationStatus, error)
}

type AdminHandler struct {
	payments    service.PaymentService
	registry    WebhookRegistry
	diagnostics WebhookDiagnostics
}

func NewAdminHandler(payments service.PaymentService, registry WebhookRegistry, diagnostics WebhookDiagnostics) *AdminHandler {
	return &AdminHandler{
		payments:    payments,
		registry:    registry,
		diagnostics: diagnostics,
	}
}

func (h *AdminHandler) WebhookStatus(c echo.Context) error {
	ctx := c.Request().Context()

	webhooks, err := h.registry.List(ctx)
	if err != nil {
		return err
	}
	registered, err := h.registry.Registered(ctx)
	if err != nil {
		return err
	}
	lastEvent, err := h.diagnostics.LastEvent(ctx)
	if err != nil {
		return err
	}
	simulation, err := h.diagnostics.Simulation(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.WebhookStatusResponse{
		Webhooks:   webhooks,
		Registered: registered,
		LastEvent:  lastEvent,
		Simulation: simulation,
	})
}

func (h *AdminHandler) RegisterWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	if !h.registry.Register(ctx) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "webhook registration failed or is already running")
	}
	registered, err := h.registry.Registered(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, registered)
}

func (h *AdminHandler) UnregisterWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	if !h.registry.Unregister(ctx) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "webhook operation already running")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) SimulateWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	registered, err := h.registry.Registered(ctx)
	if err != nil {
		return err
	}
	if registered == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no webhook registered")
	}

	status, err := h.diagnostics.Simulate(ctx, registered.ID)
	if status == nil && err != nil {
		return err
	}

	// a failed simulation is reported in the status
	return c.JSON(http.StatusOK, status)
}

func (h *AdminHandler) Capture(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}
	if err := h.payments.Capture(ctx, orderID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "captured",
	})
}

func (h *AdminHandler) Reauthorize(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}
	auth, err := h.payments.Reauthorize(ctx, orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, auth)
}

func (h *AdminHandler) Void(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}
	if err := h.payments.Void(ctx, orderID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "voided",
	})
}

func (h *AdminHandler) Refund(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	var req dto.RefundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !req.Amount.IsPositive() {
		return echo.NewHTTPError(http.StatusBadRequest, "refund amount must be positive")
	}

	refundID, err := h.payments.Refund(ctx, orderID, req.Amount, req.Reason)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.RefundResponse{RefundID: refundID})
}

func orderIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	return uint(id), nil
}
