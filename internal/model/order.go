package model

import (
	"time"

	"github.com/shopspring/decimal"

	"paypal-payments-gateway/internal/storefront"
)

// Order is a platform order. Processor state lives in OrderMeta.
type Order struct {
	ID               uint            `gorm:"primaryKey"`
	Number           string          `gorm:"size:32;index"`
	Status           string          `gorm:"size:32;index;not null"` // pending, processing, on-hold, completed, cancelled, refunded, failed
	Currency         string          `gorm:"size:8;not null"`
	ShippingTotal    decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	TaxTotal         decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	DiscountTotal    decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	Total            decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	PaymentMethod    string          `gorm:"size:64"`
	NeedsShipping    bool
	FreeTrial        bool
	ShippingName     string `gorm:"size:255"`
	ShippingCountry  string `gorm:"size:2"`
	ShippingState    string `gorm:"size:64"`
	ShippingCity     string `gorm:"size:128"`
	ShippingPostcode string `gorm:"size:32"`
	ShippingLine1    string `gorm:"size:255"`
	ShippingLine2    string `gorm:"size:255"`
	BillingEmail     string `gorm:"size:255"`
	BillingPhone     string `gorm:"size:64"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`
	Meta  []OrderMeta `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID uint `gorm:"primaryKey"`
	// FK → orders.id
	OrderID     uint            `gorm:"index;not null"`
	Name        string          `gorm:"size:255;not null"`
	SKU         string          `gorm:"size:127"`
	Description string          `gorm:"size:255"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	Digital     bool
	Fee         bool
	URL         string `gorm:"size:255"`
	ImageURL    string `gorm:"size:255"`

	CreatedAt time.Time
}

// OrderMeta is one key/value pair attached to an order.
type OrderMeta struct {
	OrderID   uint   `gorm:"primaryKey"`
	MetaKey   string `gorm:"primaryKey;size:64"`
	MetaValue string `gorm:"type:text"`
	UpdatedAt time.Time
}

func (OrderMeta) TableName() string {
	return "order_meta"
}

func (o *Order) ShippingAddress() *storefront.Address {
	if o.ShippingCountry == "" && o.ShippingLine1 == "" && o.ShippingPostcode == "" {
		return nil
	}
	return &storefront.Address{
		Country:  o.ShippingCountry,
		State:    o.ShippingState,
		City:     o.ShippingCity,
		Postcode: o.ShippingPostcode,
		Line1:    o.ShippingLine1,
		Line2:    o.ShippingLine2,
	}
}

// ToStorefront converts the row, with its loaded items and meta, to the checkout value.
func (o *Order) ToStorefront() *storefront.Order {
	items := make([]storefront.LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, storefront.LineItem{
			Name:        it.Name,
			SKU:         it.SKU,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Digital:     it.Digital,
			Fee:         it.Fee,
			URL:         it.URL,
			ImageURL:    it.ImageURL,
		})
	}
	meta := make(map[string]string, len(o.Meta))
	for _, m := range o.Meta {
		meta[m.MetaKey] = m.MetaValue
	}

	return &storefront.Order{
		ID:              o.ID,
		Number:          o.Number,
		Status:          o.Status,
		Currency:        o.Currency,
		Items:           items,
		ShippingTotal:   o.ShippingTotal,
		TaxTotal:        o.TaxTotal,
		DiscountTotal:   o.DiscountTotal,
		Total:           o.Total,
		PaymentMethod:   o.PaymentMethod,
		NeedsShipping:   o.NeedsShipping,
		FreeTrial:       o.FreeTrial,
		ShippingName:    o.ShippingName,
		ShippingAddress: o.ShippingAddress(),
		BillingEmail:    o.BillingEmail,
		BillingPhone:    o.BillingPhone,
		Meta:            meta,
	}
}

// NewOrderFromCart builds a pending order row from a cart snapshot.
func NewOrderFromCart(cart *storefront.Cart, paymentMethod string) *Order {
	o := &Order{
		Status:        storefront.StatusPending,
		Currency:      cart.Currency,
		ShippingTotal: cart.ShippingTotal,
		TaxTotal:      cart.TaxTotal,
		DiscountTotal: cart.DiscountTotal,
		Total:         cart.Total,
		PaymentMethod: paymentMethod,
		NeedsShipping: cart.NeedsShipping,
		FreeTrial:     cart.FreeTrial,
	}
	for _, li := range cart.Items {
		o.Items = append(o.Items, OrderItem{
			Name:        li.Name,
			SKU:         li.SKU,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Digital:     li.Digital,
			Fee:         li.Fee,
			URL:         li.URL,
			ImageURL:    li.ImageURL,
		})
	}
	if c := cart.Customer; c != nil {
		o.ShippingName = c.FullName()
		o.BillingEmail = c.BillingEmail
		o.BillingPhone = c.BillingPhone
		if a := c.ShippingAddress; a != nil {
			o.ShippingCountry = a.Country
			o.ShippingState = a.State
			o.ShippingCity = a.City
			o.ShippingPostcode = a.Postcode
			o.ShippingLine1 = a.Line1
			o.ShippingLine2 = a.Line2
		}
	}
	return o
}
