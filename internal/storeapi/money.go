// Package storeapi talks to the shop's Store API, which reports
// amounts as integer strings in the currency's minor unit.
package storeapi

import (
	"fmt"

	"github.com/shopspring/decimal"

	"paypal-payments-gateway/internal/entity"
)

type Money struct {
	Value             string `json:"value"`
	CurrencyCode      string `json:"currency_code"`
	CurrencyMinorUnit int32  `json:"currency_minor_unit"`
}

// Decimal converts the minor-unit integer to a decimal rounded to minor-unit digits.
func (m Money) Decimal() (decimal.Decimal, error) {
	if m.Value == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(m.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse store api amount %q: %w", m.Value, err)
	}
	return v.Shift(-m.CurrencyMinorUnit).Round(m.CurrencyMinorUnit), nil
}

func (m Money) ToPayPal() (entity.Money, error) {
	v, err := m.Decimal()
	if err != nil {
		return entity.Money{}, err
	}
	return entity.NewMoney(v, m.CurrencyCode), nil
}

// CartTotals mirrors the "totals" object of the Store API cart.
type CartTotals struct {
	TotalItems        string `json:"total_items"`
	TotalFees         string `json:"total_fees"`
	TotalDiscount     string `json:"total_discount"`
	TotalShipping     string `json:"total_shipping"`
	TotalTax          string `json:"total_tax"`
	TotalPrice        string `json:"total_price"`
	CurrencyCode      string `json:"currency_code"`
	CurrencyMinorUnit int32  `json:"currency_minor_unit"`
}

func (t CartTotals) money(v string) Money {
	return Money{Value: v, CurrencyCode: t.CurrencyCode, CurrencyMinorUnit: t.CurrencyMinorUnit}
}

func (t CartTotals) Items() Money    { return t.money(t.TotalItems) }
func (t CartTotals) Fees() Money     { return t.money(t.TotalFees) }
func (t CartTotals) Discount() Money { return t.money(t.TotalDiscount) }
func (t CartTotals) Shipping() Money { return t.money(t.TotalShipping) }
func (t CartTotals) Tax() Money      { return t.money(t.TotalTax) }
func (t CartTotals) Price() Money    { return t.money(t.TotalPrice) }

type ShippingRate struct {
	RateID            string `json:"rate_id"`
	Name              string `json:"name"`
	Price             string `json:"price"`
	Selected          bool   `json:"selected"`
	CurrencyCode      string `json:"currency_code"`
	CurrencyMinorUnit int32  `json:"currency_minor_unit"`
}

func (r ShippingRate) ToPayPal() (entity.ShippingOption, error) {
	amount, err := Money{
		Value:             r.Price,
		CurrencyCode:      r.CurrencyCode,
		CurrencyMinorUnit: r.CurrencyMinorUnit,
	}.ToPayPal()
	if err != nil {
		return entity.ShippingOption{}, fmt.Errorf("convert shipping rate %s: %w", r.RateID, err)
	}
	return entity.ShippingOption{
		ID:       r.RateID,
		Label:    r.Name,
		Selected: r.Selected,
		Type:     entity.ShippingOptionShipping,
		Amount:   amount,
	}, nil
}

type ShippingPackage struct {
	PackageID     int            `json:"package_id"`
	Name          string         `json:"name"`
	ShippingRates []ShippingRate `json:"shipping_rates"`
}

type Address struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Address1  string `json:"address_1,omitempty"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Country   string `json:"country,omitempty"`
}

// Cart is the subset of the Store API cart the gateway reads.
type Cart struct {
	NeedsShipping   bool              `json:"needs_shipping"`
	ShippingRates   []ShippingPackage `json:"shipping_rates"`
	ShippingAddress Address           `json:"shipping_address"`
	Totals          CartTotals        `json:"totals"`
	// Token is read from the Cart-Token response header.
	Token string `json:"-"`
}

// Rates returns the rates of the first shipping package.
func (c *Cart) Rates() []ShippingRate {
	if len(c.ShippingRates) == 0 {
		return nil
	}
	return c.ShippingRates[0].ShippingRates
}
