package factory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"paypal-payments-gateway/internal/entity"
)

type orderJSON struct {
	ID            *string           `json:"id"`
	Intent        string            `json:"intent"`
	Status        string            `json:"status"`
	PurchaseUnits []json.RawMessage `json:"purchase_units"`
	Payer         *entity.Payer     `json:"payer"`
	PaymentSource json.RawMessage   `json:"payment_source"`
	CreateTime    string            `json:"create_time"`
	UpdateTime    string            `json:"update_time"`
	Links         []entity.Link     `json:"links"`
}

type OrderFactory struct {
	purchaseUnits *PurchaseUnitFactory
}

func NewOrderFactory(purchaseUnits *PurchaseUnitFactory) *OrderFactory {
	return &OrderFactory{purchaseUnits: purchaseUnits}
}

// FromResponse parses a processor order body.
func (f *OrderFactory) FromResponse(body []byte) (*entity.Order, error) {
	var data orderJSON
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: decode order: %v", entity.ErrMalformedResponse, err)
	}
	if data.ID == nil || *data.ID == "" {
		return nil, fmt.Errorf("%w: order does not contain an id", entity.ErrMalformedResponse)
	}

	units := make([]entity.PurchaseUnit, 0, len(data.PurchaseUnits))
	for _, raw := range data.PurchaseUnits {
		pu, err := f.purchaseUnits.FromResponse(raw)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", *data.ID, err)
		}
		if pu != nil {
			units = append(units, *pu)
		}
	}

	status := entity.OrderStatus(data.Status)
	if status == "" {
		status = entity.OrderStatusPayerActionRequired
	}
	intent := data.Intent
	if intent == "" {
		intent = entity.IntentCapture
	}

	return &entity.Order{
		ID:            *data.ID,
		Intent:        intent,
		Status:        status,
		PurchaseUnits: units,
		Payer:         data.Payer,
		PaymentSource: paymentSourceFromResponse(data.PaymentSource),
		CreateTime:    parseTime(data.CreateTime),
		UpdateTime:    parseTime(data.UpdateTime),
		Links:         data.Links,
	}, nil
}

// paymentSourceFromResponse takes the first key of the payment_source object.
func paymentSourceFromResponse(raw json.RawMessage) *entity.PaymentSource {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	if !dec.More() {
		return nil
	}
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	name, ok := tok.(string)
	if !ok || name == "" {
		return nil
	}
	var props json.RawMessage
	if err := dec.Decode(&props); err != nil {
		return nil
	}
	return &entity.PaymentSource{Name: name, Properties: props}
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
