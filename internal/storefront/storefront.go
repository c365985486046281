// Package storefront holds the checkout context handed over by the shop:
// carts, orders and customers as plain values.
package storefront

import "github.com/shopspring/decimal"

// Gateway identifiers used as order payment methods.
const (
	GatewayPayPal     = "ppcp-gateway"
	GatewayCreditCard = "ppcp-credit-card-gateway"
	GatewayCardButton = "ppcp-card-button-gateway"
)

type Address struct {
	Country  string `json:"country"`
	State    string `json:"state"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
	Line1    string `json:"address_1"`
	Line2    string `json:"address_2"`
}

type LineItem struct {
	Name        string          `json:"name" validate:"required"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity" validate:"gte=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Digital     bool            `json:"digital"`
	URL         string          `json:"url"`
	ImageURL    string          `json:"image_url"`
	// Fee marks a fee or surcharge line rather than a product.
	Fee bool `json:"fee"`
}

func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type ShippingRate struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Cost     decimal.Decimal `json:"cost"`
	Selected bool            `json:"selected"`
}

type Customer struct {
	ID              int      `json:"id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	BillingEmail    string   `json:"billing_email"`
	BillingPhone    string   `json:"billing_phone"`
	ShippingAddress *Address `json:"shipping_address"`
}

func (c *Customer) FullName() string {
	if c == nil {
		return ""
	}
	return joinName(c.FirstName, c.LastName)
}

// Cart is a snapshot of the shopper's cart.
type Cart struct {
	SessionID     string          `json:"session_id"`
	Hash          string          `json:"hash"`
	Currency      string          `json:"currency" validate:"required,len=3"`
	Items         []LineItem      `json:"items" validate:"required,min=1,dive"`
	Coupons       []string        `json:"coupons"`
	ShippingTotal decimal.Decimal `json:"shipping_total"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	Total         decimal.Decimal `json:"total"`
	NeedsShipping bool            `json:"needs_shipping"`
	ShippingRates []ShippingRate  `json:"shipping_rates"`
	Customer      *Customer       `json:"customer"`
	FreeTrial     bool            `json:"free_trial"`
}

func (c *Cart) ShippingAddress() *Address {
	if c == nil || c.Customer == nil {
		return nil
	}
	return c.Customer.ShippingAddress
}

// Order is a placed shop order.
type Order struct {
	ID              uint
	Number          string
	Status          string
	Currency        string
	Items           []LineItem
	ShippingTotal   decimal.Decimal
	TaxTotal        decimal.Decimal
	DiscountTotal   decimal.Decimal
	Total           decimal.Decimal
	PaymentMethod   string
	NeedsShipping   bool
	FreeTrial       bool
	ShippingName    string
	ShippingAddress *Address
	BillingEmail    string
	BillingPhone    string
	Meta            map[string]string
}

func (o *Order) MetaValue(key string) string {
	if o.Meta == nil {
		return ""
	}
	return o.Meta[key]
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
