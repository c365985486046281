package factory

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/storefront"
)

const maxItemTextLength = 127

type itemJSON struct {
	Name        *string         `json:"name"`
	UnitAmount  *moneyJSON      `json:"unit_amount"`
	Quantity    json.RawMessage `json:"quantity"`
	Description string          `json:"description"`
	SKU         string          `json:"sku"`
	Category    string          `json:"category"`
	URL         string          `json:"url"`
	ImageURL    string          `json:"image_url"`
}

type ItemFactory struct{}

func NewItemFactory() *ItemFactory {
	return &ItemFactory{}
}

func (f *ItemFactory) FromCart(cart *storefront.Cart) []entity.Item {
	return f.fromLines(cart.Items, cart.Currency)
}

func (f *ItemFactory) FromOrder(order *storefront.Order) []entity.Item {
	return f.fromLines(order.Items, order.Currency)
}

func (f *ItemFactory) fromLines(lines []storefront.LineItem, currency string) []entity.Item {
	items := make([]entity.Item, 0, len(lines))
	for _, line := range lines {
		category := entity.CategoryPhysicalGoods
		if line.Digital || line.Fee {
			category = entity.CategoryDigitalGoods
		}
		quantity := line.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		items = append(items, entity.Item{
			Name:        truncate(line.Name, maxItemTextLength),
			UnitAmount:  entity.NewMoney(line.UnitPrice, currency).Round(),
			Quantity:    quantity,
			Description: truncate(strings.TrimSpace(line.Description), maxItemTextLength),
			SKU:         truncate(line.SKU, maxItemTextLength),
			Category:    category,
			URL:         line.URL,
			ImageURL:    line.ImageURL,
		})
	}
	return items
}

func (f *ItemFactory) FromResponse(raw itemJSON) (entity.Item, error) {
	if raw.Name == nil {
		return entity.Item{}, fmt.Errorf("%w: no name for item given", entity.ErrMalformedResponse)
	}
	if raw.UnitAmount == nil {
		return entity.Item{}, fmt.Errorf("%w: no unit amount for item %q given", entity.ErrMalformedResponse, *raw.Name)
	}
	unit, err := moneyFromResponse(raw.UnitAmount, "item unit amount")
	if err != nil {
		return entity.Item{}, err
	}
	qty, err := strconv.Atoi(strings.Trim(string(raw.Quantity), `"`))
	if err != nil {
		return entity.Item{}, fmt.Errorf("%w: no quantity for item %q given", entity.ErrMalformedResponse, *raw.Name)
	}
	category := entity.ItemCategory(raw.Category)
	if category == "" {
		category = entity.CategoryPhysicalGoods
	}
	return entity.Item{
		Name:        *raw.Name,
		UnitAmount:  unit,
		Quantity:    qty,
		Description: raw.Description,
		SKU:         raw.SKU,
		Category:    category,
		URL:         raw.URL,
		ImageURL:    raw.ImageURL,
	}, nil
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
