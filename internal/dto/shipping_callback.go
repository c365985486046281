package dto

import "paypal-payments-gateway/internal/entity"

type ShippingOptionRef struct {
	ID string `json:"id"`
}

type PurchaseUnitRef struct {
	ReferenceID string `json:"reference_id"`
}

// ShippingCallbackRequest is the body the processor posts when the buyer
// changes the address or shipping option in its popup.
type ShippingCallbackRequest struct {
	ID              string             `json:"id" validate:"required"`
	ShippingAddress *entity.Address    `json:"shipping_address" validate:"required"`
	ShippingOption  *ShippingOptionRef `json:"shipping_option"`
	PurchaseUnits   []PurchaseUnitRef  `json:"purchase_units"`
}

func (r *ShippingCallbackRequest) ReferenceID() string {
	if len(r.PurchaseUnits) == 0 || r.PurchaseUnits[0].ReferenceID == "" {
		return entity.DefaultReferenceID
	}
	return r.PurchaseUnits[0].ReferenceID
}

func (r *ShippingCallbackRequest) ShippingOptionID() string {
	if r.ShippingOption == nil {
		return ""
	}
	return r.ShippingOption.ID
}
