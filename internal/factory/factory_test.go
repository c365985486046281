package factory

import (
	"testing"

	"github.com/shopspring/decimal"

	"paypal-payments-gateway/internal/storefront"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newPurchaseUnitFactory(t *testing.T, opts ...PurchaseUnitOption) *PurchaseUnitFactory {
	t.Helper()
	items := NewItemFactory()
	return NewPurchaseUnitFactory(NewAmountFactory(items), items, NewShippingFactory(), "WC-", "My Shop", opts...)
}

func usAddress() *storefront.Address {
	return &storefront.Address{
		Country:  "US",
		State:    "CA",
		City:     "San Jose",
		Postcode: "95131",
		Line1:    "2211 N First St",
	}
}

// checkoutCart is a $49.99 cart: $50 of goods, $4.99 shipping, $5 coupon.
func checkoutCart() *storefront.Cart {
	return &storefront.Cart{
		SessionID: "sess-1",
		Currency:  "USD",
		Items: []storefront.LineItem{
			{Name: "T-Shirt", SKU: "TS-1", Quantity: 2, UnitPrice: dec("20.00")},
			{Name: "Cap", SKU: "CAP-1", Quantity: 1, UnitPrice: dec("10.00")},
		},
		ShippingTotal: dec("4.99"),
		TaxTotal:      dec("0"),
		DiscountTotal: dec("5.00"),
		Total:         dec("49.99"),
		NeedsShipping: true,
		Customer: &storefront.Customer{
			FirstName:       "Jane",
			LastName:        "Doe",
			ShippingAddress: usAddress(),
		},
	}
}
