package entity

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

type ItemCategory string

const (
	CategoryPhysicalGoods ItemCategory = "PHYSICAL_GOODS"
	CategoryDigitalGoods  ItemCategory = "DIGITAL_GOODS"
)

type Item struct {
	Name        string
	UnitAmount  Money
	Quantity    int
	Description string
	SKU         string
	Category    ItemCategory
	URL         string
	ImageURL    string
}

// LineTotal is unit amount times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitAmount.Value().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name        string       `json:"name"`
		UnitAmount  Money        `json:"unit_amount"`
		Quantity    string       `json:"quantity"`
		Description string       `json:"description,omitempty"`
		SKU         string       `json:"sku,omitempty"`
		Category    ItemCategory `json:"category,omitempty"`
		URL         string       `json:"url,omitempty"`
		ImageURL    string       `json:"image_url,omitempty"`
	}{i.Name, i.UnitAmount, strconv.Itoa(i.Quantity), i.Description, i.SKU, i.Category, i.URL, i.ImageURL})
}
