package processor

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/model"
	"paypal-payments-gateway/internal/storefront"
)

// ExpectedTotal is what the order must be paid with: the total the shipping
// callback last quoted from the shop, or else the stored order total.
func ExpectedTotal(order *model.Order) entity.Money {
	if raw := order.ToStorefront().MetaValue(storefront.MetaExpectedTotal); raw != "" {
		if total, err := decimal.NewFromString(raw); err == nil {
			return entity.NewMoney(total, order.Currency)
		}
	}
	return entity.NewMoney(order.Total, order.Currency)
}

// CheckAmount fails with entity.ErrAmountMismatch unless amount equals the
// expected total of the order.
func CheckAmount(order *model.Order, amount entity.Money) error {
	want := ExpectedTotal(order).Round()
	got := amount.Round()
	if !got.Value().Equal(want.Value()) ||
		(want.CurrencyCode() != "" && !strings.EqualFold(got.CurrencyCode(), want.CurrencyCode())) {
		return fmt.Errorf("%w: paypal amount %s %s, order %d total %s %s", entity.ErrAmountMismatch,
			got.FormattedValue(), got.CurrencyCode(), order.ID, want.FormattedValue(), want.CurrencyCode())
	}
	return nil
}

// paidAmount sums the completed captures, or the captured authorizations
// when nothing was captured directly. ok is false when no payment carries
// an amount.
func paidAmount(ppOrder *entity.Order) (amount entity.Money, ok bool) {
	sum := decimal.Zero
	currency := ""
	add := func(m *entity.Money) {
		if m == nil {
			return
		}
		sum = sum.Add(m.Value())
		currency = m.CurrencyCode()
		ok = true
	}
	for _, c := range ppOrder.Captures() {
		if c.Status == entity.PaymentStatusCompleted {
			add(c.Amount)
		}
	}
	if !ok {
		for _, a := range ppOrder.Authorizations() {
			if a.Status == entity.PaymentStatusCaptured {
				add(a.Amount)
			}
		}
	}
	return entity.NewMoney(sum, currency), ok
}
