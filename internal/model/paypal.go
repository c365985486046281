package model

import "strings"

type Amount struct {
	Currency string `json:"currency_code"`
	Value    string `json:"value"`
}

type RelatedIDs struct {
	OrderID         string `json:"order_id"`
	AuthorizationID string `json:"authorization_id"`
	CaptureID       string `json:"capture_id"`
}

type SupplementaryData struct {
	RelatedIDs RelatedIDs `json:"related_ids"`
}

type PurchaseUnit struct {
	ReferenceID string `json:"reference_id"`
	CustomID    string `json:"custom_id"`
	InvoiceID   string `json:"invoice_id"`
}

type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// PaypalResource covers the resource shapes of the handled webhook events:
// checkout orders, captures, authorizations and refunds.
type PaypalResource struct {
	ID                string            `json:"id"`
	Intent            string            `json:"intent"`
	Status            string            `json:"status"`
	CustomID          string            `json:"custom_id"`
	InvoiceID         string            `json:"invoice_id"`
	Amount            *Amount           `json:"amount"`
	PurchaseUnits     []PurchaseUnit    `json:"purchase_units"`
	SupplementaryData SupplementaryData `json:"supplementary_data"`
	Links             []Link            `json:"links"`
}

// PlatformOrderRef is the custom_id of the resource or of its first purchase unit.
func (r *PaypalResource) PlatformOrderRef() string {
	if r.CustomID != "" {
		return r.CustomID
	}
	if len(r.PurchaseUnits) > 0 {
		return r.PurchaseUnits[0].CustomID
	}
	return ""
}

// PayPalOrderID is the checkout order the resource belongs to.
func (r *PaypalResource) PayPalOrderID(eventType string) string {
	if id := r.SupplementaryData.RelatedIDs.OrderID; id != "" {
		return id
	}
	if strings.HasPrefix(eventType, "CHECKOUT.") {
		return r.ID
	}
	return ""
}
