package factory

import (
	"encoding/json"
	"fmt"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/storefront"
)

type shippingJSON struct {
	Name *struct {
		FullName string `json:"full_name"`
	} `json:"name"`
	Address      *addressJSON `json:"address"`
	EmailAddress string       `json:"email_address"`
	PhoneNumber  *struct {
		NationalNumber string `json:"national_number"`
	} `json:"phone_number"`
	Options []entity.ShippingOption `json:"options"`
}

type addressJSON struct {
	CountryCode  *string `json:"country_code"`
	AddressLine1 string  `json:"address_line_1"`
	AddressLine2 string  `json:"address_line_2"`
	AdminArea1   string  `json:"admin_area_1"`
	AdminArea2   string  `json:"admin_area_2"`
	PostalCode   string  `json:"postal_code"`
}

type ShippingFactory struct{}

func NewShippingFactory() *ShippingFactory {
	return &ShippingFactory{}
}

// FromCart builds shipping from the cart customer, with the cart's
// shipping rates as options when requested.
func (f *ShippingFactory) FromCart(cart *storefront.Cart, withOptions bool) entity.Shipping {
	shipping := entity.Shipping{
		Name:    cart.Customer.FullName(),
		Address: AddressFromStorefront(cart.ShippingAddress()),
	}
	if withOptions {
		shipping.Options = ShippingOptionsFromCart(cart)
	}
	return shipping
}

func (f *ShippingFactory) FromOrder(order *storefront.Order) entity.Shipping {
	return entity.Shipping{
		Name:    order.ShippingName,
		Address: AddressFromStorefront(order.ShippingAddress),
	}
}

// FromResponse parses processor shipping details. Options that fail to
// parse are part of the returned error.
func (f *ShippingFactory) FromResponse(raw json.RawMessage) (*entity.Shipping, error) {
	var data shippingJSON
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode shipping: %w", err)
	}

	shipping := &entity.Shipping{
		EmailAddress: data.EmailAddress,
		Options:      data.Options,
	}
	if data.Name != nil {
		shipping.Name = data.Name.FullName
	}
	if data.PhoneNumber != nil && data.PhoneNumber.NationalNumber != "" {
		shipping.Phone = &entity.Phone{NationalNumber: data.PhoneNumber.NationalNumber}
	}
	if data.Address != nil {
		if data.Address.CountryCode == nil {
			return nil, fmt.Errorf("%w: no country given for address", entity.ErrMalformedResponse)
		}
		shipping.Address = &entity.Address{
			CountryCode:  *data.Address.CountryCode,
			AddressLine1: data.Address.AddressLine1,
			AddressLine2: data.Address.AddressLine2,
			AdminArea1:   data.Address.AdminArea1,
			AdminArea2:   data.Address.AdminArea2,
			PostalCode:   data.Address.PostalCode,
		}
	}
	return shipping, nil
}

func AddressFromStorefront(a *storefront.Address) *entity.Address {
	if a == nil {
		return nil
	}
	return &entity.Address{
		CountryCode:  a.Country,
		AddressLine1: a.Line1,
		AddressLine2: a.Line2,
		AdminArea1:   a.State,
		AdminArea2:   a.City,
		PostalCode:   a.Postcode,
	}
}

// ShippingOptionsFromCart converts the cart rates. Exactly one option is
// selected; the first one when the cart has no choice yet.
func ShippingOptionsFromCart(cart *storefront.Cart) []entity.ShippingOption {
	options := make([]entity.ShippingOption, 0, len(cart.ShippingRates))
	selected := false
	for _, rate := range cart.ShippingRates {
		isSelected := rate.Selected && !selected
		selected = selected || isSelected
		options = append(options, entity.ShippingOption{
			ID:       rate.ID,
			Label:    rate.Label,
			Selected: isSelected,
			Type:     entity.ShippingOptionShipping,
			Amount:   entity.NewMoney(rate.Cost, cart.Currency).Round(),
		})
	}
	if !selected && len(options) > 0 {
		options[0].Selected = true
	}
	return options
}
