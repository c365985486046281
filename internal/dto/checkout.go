package dto

import (
	"paypal-payments-gateway/internal/storefront"
)

type CreateOrderRequest struct {
	Context       string           `json:"context" validate:"omitempty,oneof=checkout pay-now cart cart-block mini-cart product"`
	FundingSource string           `json:"funding_source" validate:"omitempty,oneof=paypal venmo card paylater"`
	OrderID       uint             `json:"order_id"`
	Cart          *storefront.Cart `json:"cart" validate:"required_without=OrderID"`
	Locale        string           `json:"locale" validate:"omitempty,max=10"`
}

type CompleteOrderResponse struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

type CartDataRequest struct {
	Cart          *storefront.Cart `json:"cart" validate:"required"`
	PayPalOrderID string           `json:"paypal_order_id" validate:"omitempty,max=64"`
}

type CartDataResponse struct {
	Key string `json:"key"`
}
