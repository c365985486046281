package entity

import "encoding/json"

type Address struct {
	CountryCode  string `json:"country_code"`
	AddressLine1 string `json:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	AdminArea1   string `json:"admin_area_1,omitempty"`
	AdminArea2   string `json:"admin_area_2,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
}

type Phone struct {
	NationalNumber string `json:"national_number"`
}

type ShippingOptionType string

const (
	ShippingOptionShipping ShippingOptionType = "SHIPPING"
	ShippingOptionPickup   ShippingOptionType = "PICKUP"
)

type ShippingOption struct {
	ID       string             `json:"id"`
	Label    string             `json:"label"`
	Selected bool               `json:"selected"`
	Type     ShippingOptionType `json:"type"`
	Amount   Money              `json:"amount"`
}

type Shipping struct {
	Name         string
	Address      *Address
	EmailAddress string
	Phone        *Phone
	Options      []ShippingOption
}

func (s Shipping) MarshalJSON() ([]byte, error) {
	type name struct {
		FullName string `json:"full_name"`
	}
	out := struct {
		Name         *name            `json:"name,omitempty"`
		Address      *Address         `json:"address,omitempty"`
		EmailAddress string           `json:"email_address,omitempty"`
		Phone        *Phone           `json:"phone_number,omitempty"`
		Options      []ShippingOption `json:"options,omitempty"`
	}{
		Address:      s.Address,
		EmailAddress: s.EmailAddress,
		Phone:        s.Phone,
		Options:      s.Options,
	}
	if s.Name != "" {
		out.Name = &name{FullName: s.Name}
	}
	return json.Marshal(out)
}
