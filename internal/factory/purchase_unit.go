package factory

import (
	"encoding/json"
	"fmt"
	"strconv"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/storefront"
)

// CustomerIDPrefix prefixes the session id used as custom_id before an order exists.
const CustomerIDPrefix = "pcp_customer_"

type purchaseUnitJSON struct {
	ReferenceID    *string         `json:"reference_id"`
	Amount         *amountJSON     `json:"amount"`
	Items          []itemJSON      `json:"items"`
	Shipping       json.RawMessage `json:"shipping"`
	Payments       json.RawMessage `json:"payments"`
	Description    string          `json:"description"`
	CustomID       string          `json:"custom_id"`
	InvoiceID      string          `json:"invoice_id"`
	SoftDescriptor *string         `json:"soft_descriptor"`
}

// ShippingNeededFunc overrides whether items need shipping. ok=false
// falls back to the item categories.
type ShippingNeededFunc func(items []entity.Item) (needed bool, ok bool)

type PurchaseUnitFactory struct {
	amounts        *AmountFactory
	items          *ItemFactory
	shipping       *ShippingFactory
	invoicePrefix  string
	softDescriptor string
	shippingNeeded []ShippingNeededFunc
}

type PurchaseUnitOption func(*PurchaseUnitFactory)

func WithShippingNeeded(fn ShippingNeededFunc) PurchaseUnitOption {
	return func(f *PurchaseUnitFactory) {
		f.shippingNeeded = append(f.shippingNeeded, fn)
	}
}

func NewPurchaseUnitFactory(
	amounts *AmountFactory,
	items *ItemFactory,
	shipping *ShippingFactory,
	invoicePrefix string,
	softDescriptor string,
	opts ...PurchaseUnitOption,
) *PurchaseUnitFactory {
	f := &PurchaseUnitFactory{
		amounts:        amounts,
		items:          items,
		shipping:       shipping,
		invoicePrefix:  invoicePrefix,
		softDescriptor: softDescriptor,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *PurchaseUnitFactory) FromOrder(order *storefront.Order) entity.PurchaseUnit {
	amount := f.amounts.FromOrder(order)

	var items []entity.Item
	if amount.Breakdown != nil {
		items = nonNegative(f.items.FromOrder(order))
	}

	var shipping *entity.Shipping
	if s := f.shipping.FromOrder(order); !f.shouldDisableShipping(items, s.Address) {
		shipping = &s
	}

	number := order.Number
	if number == "" {
		number = strconv.FormatUint(uint64(order.ID), 10)
	}

	return entity.PurchaseUnit{
		ReferenceID:    entity.DefaultReferenceID,
		Amount:         amount,
		Items:          items,
		Shipping:       shipping,
		CustomID:       strconv.FormatUint(uint64(order.ID), 10),
		InvoiceID:      f.invoicePrefix + number,
		SoftDescriptor: SanitizeSoftDescriptor(f.softDescriptor),
	}
}

func (f *PurchaseUnitFactory) FromCart(cart *storefront.Cart, withShippingOptions bool) entity.PurchaseUnit {
	amount := f.amounts.FromCart(cart)
	items := nonNegative(f.items.FromCart(cart))

	var shipping *entity.Shipping
	if f.needsShipping(items) && cart.Customer != nil {
		s := f.shipping.FromCart(cart, withShippingOptions)
		if addr := s.Address; addr != nil && len(addr.CountryCode) == 2 &&
			(addr.PostalCode != "" || countryWithoutPostalCode(addr.CountryCode)) {
			shipping = &s
		}
	}

	var customID string
	if cart.SessionID != "" {
		customID = CustomerIDPrefix + cart.SessionID
	}

	return entity.PurchaseUnit{
		ReferenceID:    entity.DefaultReferenceID,
		Amount:         amount,
		Items:          items,
		Shipping:       shipping,
		CustomID:       customID,
		SoftDescriptor: SanitizeSoftDescriptor(f.softDescriptor),
	}
}

// FromResponse parses a processor purchase unit. It returns nil when the
// unit carries no amount. Unparseable shipping or payments are dropped.
func (f *PurchaseUnitFactory) FromResponse(raw json.RawMessage) (*entity.PurchaseUnit, error) {
	var data purchaseUnitJSON
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: decode purchase unit: %v", entity.ErrMalformedResponse, err)
	}
	if data.ReferenceID == nil {
		return nil, fmt.Errorf("%w: no reference ID given", entity.ErrMalformedResponse)
	}

	amount, err := f.amounts.FromResponse(data.Amount)
	if err != nil {
		return nil, err
	}
	if amount == nil {
		return nil, nil
	}

	items := make([]entity.Item, 0, len(data.Items))
	for _, rawItem := range data.Items {
		item, err := f.items.FromResponse(rawItem)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	softDescriptor := f.softDescriptor
	if data.SoftDescriptor != nil {
		softDescriptor = *data.SoftDescriptor
	}

	pu := &entity.PurchaseUnit{
		ReferenceID:    *data.ReferenceID,
		Amount:         *amount,
		Items:          items,
		Description:    data.Description,
		CustomID:       data.CustomID,
		InvoiceID:      data.InvoiceID,
		SoftDescriptor: SanitizeSoftDescriptor(softDescriptor),
	}
	if len(data.Shipping) > 0 && string(data.Shipping) != "null" && string(data.Shipping) != "{}" {
		if shipping, err := f.shipping.FromResponse(data.Shipping); err == nil {
			pu.Shipping = shipping
		}
	}
	if len(data.Payments) > 0 && string(data.Payments) != "null" {
		var payments entity.Payments
		if err := json.Unmarshal(data.Payments, &payments); err == nil {
			pu.Payments = &payments
		}
	}
	return pu, nil
}

func (f *PurchaseUnitFactory) needsShipping(items []entity.Item) bool {
	for _, fn := range f.shippingNeeded {
		if needed, ok := fn(items); ok {
			return needed
		}
	}
	for _, item := range items {
		if item.Category != entity.CategoryDigitalGoods {
			return true
		}
	}
	return false
}

func (f *PurchaseUnitFactory) shouldDisableShipping(items []entity.Item, addr *entity.Address) bool {
	return !f.needsShipping(items) ||
		addr == nil ||
		addr.CountryCode == "" ||
		addr.AddressLine1 == "" ||
		(addr.PostalCode == "" && !countryWithoutPostalCode(addr.CountryCode))
}

func nonNegative(items []entity.Item) []entity.Item {
	out := make([]entity.Item, 0, len(items))
	for _, item := range items {
		if !item.UnitAmount.Value().IsNegative() {
			out = append(out, item)
		}
	}
	return out
}
