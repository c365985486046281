package entity

import "encoding/json"

const DefaultReferenceID = "default"

type PurchaseUnit struct {
	ReferenceID    string
	Amount         Amount
	Items          []Item
	Shipping       *Shipping
	Description    string
	CustomID       string
	InvoiceID      string
	SoftDescriptor string
	Payments       *Payments
}

// ContainsPhysicalGoods reports whether any item ships.
// Items without a category count as physical.
func (p PurchaseUnit) ContainsPhysicalGoods() bool {
	for _, item := range p.Items {
		if item.Category != CategoryDigitalGoods {
			return true
		}
	}
	return false
}

func (p PurchaseUnit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ReferenceID    string    `json:"reference_id"`
		Amount         Amount    `json:"amount"`
		Items          []Item    `json:"items,omitempty"`
		Shipping       *Shipping `json:"shipping,omitempty"`
		Description    string    `json:"description,omitempty"`
		CustomID       string    `json:"custom_id,omitempty"`
		InvoiceID      string    `json:"invoice_id,omitempty"`
		SoftDescriptor string    `json:"soft_descriptor,omitempty"`
		Payments       *Payments `json:"payments,omitempty"`
	}{p.ReferenceID, p.Amount, p.Items, p.Shipping, p.Description, p.CustomID, p.InvoiceID, p.SoftDescriptor, p.Payments})
}
