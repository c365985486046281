package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// currencies PayPal accepts only without decimals.
var zeroDecimalCurrencies = map[string]bool{
	"HUF": true,
	"JPY": true,
	"TWD": true,
}

// Money is a decimal value bound to an ISO 4217 currency code.
type Money struct {
	value    decimal.Decimal
	currency string
}

func NewMoney(value decimal.Decimal, currency string) Money {
	return Money{value: value, currency: strings.ToUpper(currency)}
}

func (m Money) Value() decimal.Decimal {
	return m.value
}

func (m Money) CurrencyCode() string {
	return m.currency
}

func (m Money) IsZero() bool {
	return m.value.IsZero()
}

// CurrencyPrecision is the number of decimals the processor accepts for a currency.
func CurrencyPrecision(currency string) int32 {
	if zeroDecimalCurrencies[strings.ToUpper(currency)] {
		return 0
	}
	return 2
}

// Round rounds the value to the currency precision.
func (m Money) Round() Money {
	return Money{value: m.value.Round(CurrencyPrecision(m.currency)), currency: m.currency}
}

// FormattedValue renders the value the way the processor expects it.
func (m Money) FormattedValue() string {
	return m.value.StringFixed(CurrencyPrecision(m.currency))
}

func (m Money) Equal(o Money) bool {
	return m.currency == o.currency && m.value.Equal(o.value)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CurrencyCode string `json:"currency_code"`
		Value        string `json:"value"`
	}{m.currency, m.FormattedValue()})
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var raw struct {
		CurrencyCode string          `json:"currency_code"`
		Value        json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := ParseDecimal(raw.Value)
	if err != nil {
		return fmt.Errorf("money value: %w", err)
	}
	*m = NewMoney(v, raw.CurrencyCode)
	return nil
}

// ParseDecimal reads a JSON number or numeric string.
func ParseDecimal(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return decimal.Zero, fmt.Errorf("%w: empty numeric value", ErrMalformedResponse)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not numeric", ErrMalformedResponse, s)
	}
	return v, nil
}
