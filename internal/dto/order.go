package dto

import (
	"time"

	"paypal-payments-gateway/internal/entity"
)

// OrderResponse is the processor order as returned to the shop frontend.
type OrderResponse struct {
	ID            string                `json:"id"`
	Intent        string                `json:"intent,omitempty"`
	Status        entity.OrderStatus    `json:"status"`
	PurchaseUnits []entity.PurchaseUnit `json:"purchase_units"`
	Payer         *entity.Payer         `json:"payer,omitempty"`
	PaymentSource string                `json:"payment_source,omitempty"`
	CreateTime    *time.Time            `json:"create_time,omitempty"`
	UpdateTime    *time.Time            `json:"update_time,omitempty"`
	Links         []entity.Link         `json:"links,omitempty"`
}

func NewOrderResponse(o *entity.Order) *OrderResponse {
	return &OrderResponse{
		ID:            o.ID,
		Intent:        o.Intent,
		Status:        o.Status,
		PurchaseUnits: o.PurchaseUnits,
		Payer:         o.Payer,
		PaymentSource: o.PaymentSourceName(),
		CreateTime:    o.CreateTime,
		UpdateTime:    o.UpdateTime,
		Links:         o.Links,
	}
}
