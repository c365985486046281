package dto

import (
	"github.com/shopspring/decimal"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/webhook"
)

type RefundRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason" validate:"max=255"`
}

type RefundResponse struct {
	RefundID string `json:"refund_id"`
}

type WebhookStatusResponse struct {
	Webhooks   []entity.Webhook          `json:"webhooks"`
	Registered *webhook.Record           `json:"registered"`
	LastEvent  *webhook.LastEvent        `json:"last_event"`
	Simulation *webhook.SimulationStatus `json:"simulation"`
}
