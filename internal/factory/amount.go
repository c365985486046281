// Package factory translates shop carts and orders into processor
// entities, and processor responses back into entities.
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/storeapi"
	"paypal-payments-gateway/internal/storefront"
)

var trialVerificationTotal = decimal.NewFromInt(1)

type moneyJSON struct {
	CurrencyCode *string         `json:"currency_code"`
	Value        json.RawMessage `json:"value"`
}

type amountJSON struct {
	moneyJSON
	Breakdown map[string]*moneyJSON `json:"breakdown"`
}

type AmountFactory struct {
	items *ItemFactory
}

func NewAmountFactory(items *ItemFactory) *AmountFactory {
	return &AmountFactory{items: items}
}

func (f *AmountFactory) FromCart(cart *storefront.Cart) entity.Amount {
	currency := cart.Currency
	items := f.items.FromCart(cart)

	breakdown := &entity.AmountBreakdown{
		ItemTotal: money(itemTotal(items), currency),
		Shipping:  money(cart.ShippingTotal, currency),
		TaxTotal:  money(cart.TaxTotal, currency),
		Discount:  discount(cart.DiscountTotal, items, currency),
	}

	return balanced(entity.NewMoney(cart.Total, currency), breakdown)
}

// FromOrder builds the order amount. Free-trial card orders are charged a
// nominal verification amount with no breakdown.
func (f *AmountFactory) FromOrder(order *storefront.Order) entity.Amount {
	currency := order.Currency
	if IsTrialVerification(order) {
		return entity.Amount{Total: entity.NewMoney(trialVerificationTotal, currency)}
	}

	items := f.items.FromOrder(order)
	breakdown := &entity.AmountBreakdown{
		ItemTotal: money(itemTotal(items), currency),
		Shipping:  money(order.ShippingTotal, currency),
		TaxTotal:  money(order.TaxTotal, currency),
		Discount:  discount(order.DiscountTotal, items, currency),
	}

	return balanced(entity.NewMoney(order.Total, currency), breakdown)
}

func (f *AmountFactory) FromStoreAPICart(totals storeapi.CartTotals) (entity.Amount, error) {
	total, err := totals.Price().ToPayPal()
	if err != nil {
		return entity.Amount{}, fmt.Errorf("convert cart total: %w", err)
	}

	components := []struct {
		name string
		src  storeapi.Money
	}{
		{"item_total", totals.Items()},
		{"shipping", totals.Shipping()},
		{"tax_total", totals.Tax()},
		{"discount", totals.Discount()},
	}
	values := make([]*entity.Money, len(components))
	for i, c := range components {
		m, err := c.src.ToPayPal()
		if err != nil {
			return entity.Amount{}, fmt.Errorf("convert cart %s: %w", c.name, err)
		}
		values[i] = &m
	}

	return entity.Amount{
		Total: total,
		Breakdown: &entity.AmountBreakdown{
			ItemTotal: values[0],
			Shipping:  values[1],
			TaxTotal:  values[2],
			Discount:  values[3],
		},
	}, nil
}

// FromResponse parses a processor amount. A nil amount yields nil.
func (f *AmountFactory) FromResponse(raw *amountJSON) (*entity.Amount, error) {
	if raw == nil {
		return nil, nil
	}
	total, err := moneyFromResponse(&raw.moneyJSON, "amount")
	if err != nil {
		return nil, err
	}
	amount := &entity.Amount{Total: total}
	if raw.Breakdown != nil {
		amount.Breakdown, err = breakdownFromResponse(raw.Breakdown)
		if err != nil {
			return nil, err
		}
	}
	return amount, nil
}

// IsTrialVerification reports whether a zero-cost trial order is paid by
// card and so needs a verification authorization instead of its total.
func IsTrialVerification(order *storefront.Order) bool {
	if !order.FreeTrial {
		return false
	}
	switch order.PaymentMethod {
	case storefront.GatewayCreditCard, storefront.GatewayCardButton:
		return true
	case storefront.GatewayPayPal:
		return order.MetaValue(storefront.MetaPaymentSource) == entity.PaymentSourceCard
	}
	return false
}

func breakdownFromResponse(raw map[string]*moneyJSON) (*entity.AmountBreakdown, error) {
	b := &entity.AmountBreakdown{}
	fields := []struct {
		key string
		dst **entity.Money
	}{
		{"item_total", &b.ItemTotal},
		{"shipping", &b.Shipping},
		{"tax_total", &b.TaxTotal},
		{"handling", &b.Handling},
		{"insurance", &b.Insurance},
		{"shipping_discount", &b.ShippingDiscount},
		{"discount", &b.Discount},
	}
	for _, field := range fields {
		m, ok := raw[field.key]
		if !ok || m == nil {
			continue
		}
		parsed, err := moneyFromResponse(m, "breakdown "+field.key)
		if err != nil {
			return nil, err
		}
		*field.dst = &parsed
	}
	return b, nil
}

func moneyFromResponse(raw *moneyJSON, field string) (entity.Money, error) {
	value, err := entity.ParseDecimal(raw.Value)
	if err != nil {
		return entity.Money{}, fmt.Errorf("%w: no value given for %s", entity.ErrMalformedResponse, field)
	}
	if raw.CurrencyCode == nil || *raw.CurrencyCode == "" {
		return entity.Money{}, fmt.Errorf("%w: no currency given for %s", entity.ErrMalformedResponse, field)
	}
	return entity.NewMoney(value, *raw.CurrencyCode), nil
}

// itemTotal sums the non-negative item lines.
func itemTotal(items []entity.Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		if !item.UnitAmount.Value().IsNegative() {
			sum = sum.Add(item.LineTotal())
		}
	}
	return sum
}

// discount adds negative item lines to the coupon discount. Zero yields nil.
func discount(coupons decimal.Decimal, items []entity.Item, currency string) *entity.Money {
	total := coupons
	for _, item := range items {
		if item.UnitAmount.Value().IsNegative() {
			total = total.Add(item.LineTotal().Abs())
		}
	}
	if total.IsZero() {
		return nil
	}
	return money(total, currency)
}

func money(v decimal.Decimal, currency string) *entity.Money {
	m := entity.NewMoney(v, currency).Round()
	return &m
}

// balanced books any rounding difference between the shop total and the
// breakdown as handling or extra discount, so the processor's sum check holds.
func balanced(total entity.Money, b *entity.AmountBreakdown) entity.Amount {
	total = total.Round()
	currency := total.CurrencyCode()
	diff := total.Value().Sub(b.Sum())
	switch {
	case diff.IsPositive():
		b.Handling = money(diff, currency)
	case diff.IsNegative():
		extra := diff.Abs()
		if b.Discount != nil {
			extra = extra.Add(b.Discount.Value())
		}
		b.Discount = money(extra, currency)
	}
	return entity.Amount{Total: total, Breakdown: b}
}
