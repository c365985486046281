package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"paypal-payments-gateway/internal/webhook"
)

// WebhookReceiver processes one webhook delivery.
type WebhookReceiver interface {
	Handle(ctx context.Context, r *http.Request, body []byte) (webhook.Outcome, error)
}

type WebhookHandler struct {
	receiver WebhookReceiver
	log      *slog.Logger
}

func NewWebhookHandler(receiver WebhookReceiver, log *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		receiver: receiver,
		log:      log,
	}
}

// Receive answers 2xx only when the event needs no redelivery; the
// processor retries everything else.
func (h *WebhookHandler) Receive(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	outcome, err := h.receiver.Handle(ctx, c.Request(), body)
	switch {
	case errors.Is(err, webhook.ErrInvalidSignature), errors.Is(err, webhook.ErrNoWebhookID):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"outcome": string(outcome),
	})
}
