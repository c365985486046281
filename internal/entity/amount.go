package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// AmountBreakdown splits an amount into its components.
// A nil component is absent from the request, never sent as zero.
type AmountBreakdown struct {
	ItemTotal        *Money `json:"item_total,omitempty"`
	Shipping         *Money `json:"shipping,omitempty"`
	TaxTotal         *Money `json:"tax_total,omitempty"`
	Handling         *Money `json:"handling,omitempty"`
	Insurance        *Money `json:"insurance,omitempty"`
	ShippingDiscount *Money `json:"shipping_discount,omitempty"`
	Discount         *Money `json:"discount,omitempty"`
}

// Sum adds the positive components and subtracts both discounts.
func (b AmountBreakdown) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, m := range []*Money{b.ItemTotal, b.Shipping, b.TaxTotal, b.Handling, b.Insurance} {
		if m != nil {
			sum = sum.Add(m.Value())
		}
	}
	for _, m := range []*Money{b.ShippingDiscount, b.Discount} {
		if m != nil {
			sum = sum.Sub(m.Value())
		}
	}
	return sum
}

type Amount struct {
	Total     Money
	Breakdown *AmountBreakdown
}

func (a Amount) CurrencyCode() string {
	return a.Total.CurrencyCode()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CurrencyCode string           `json:"currency_code"`
		Value        string           `json:"value"`
		Breakdown    *AmountBreakdown `json:"breakdown,omitempty"`
	}{a.Total.CurrencyCode(), a.Total.FormattedValue(), a.Breakdown})
}
