package threeds

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"paypal-payments-gateway/internal/entity"
)

func TestCaptureValidator_IsValid(t *testing.T) {
	approved := cardOrder(t, authResult("NO", "Y", "R"))
	approved.Status = entity.OrderStatusApproved

	paypal := &entity.Order{Status: entity.OrderStatusCreated, PaymentSource: &entity.PaymentSource{Name: entity.PaymentSourcePayPal}}

	tests := []struct {
		name  string
		order *entity.Order
		want  bool
	}{
		{"nil order", nil, false},
		{"approved", approved, true},
		{"no payment source", &entity.Order{Status: entity.OrderStatusCreated}, false},
		{"non-card source", paypal, true},
		{"card possible", cardOrder(t, authResult("POSSIBLE", "Y", "Y")), true},
		{"card yes", cardOrder(t, authResult("YES", "Y", "Y")), true},
		{"card no", cardOrder(t, authResult("NO", "Y", "N")), false},
		{"card without result", cardOrder(t, map[string]any{"brand": "VISA"}), false},
	}

	var v CaptureValidator
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsValid(tt.order))
		})
	}
}
