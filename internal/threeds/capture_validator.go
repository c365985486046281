package threeds

import "paypal-payments-gateway/internal/entity"

// CaptureValidator decides whether an order returned by the processor can be captured.
type CaptureValidator struct{}

// IsValid accepts approved orders and non-card sources; card orders need a
// possible or confirmed liability shift.
func (CaptureValidator) IsValid(order *entity.Order) bool {
	if order == nil {
		return false
	}
	if order.Status == entity.OrderStatusApproved {
		return true
	}
	if order.PaymentSource == nil {
		return false
	}
	if order.PaymentSource.Name != entity.PaymentSourceCard {
		return true
	}

	card, err := order.PaymentSource.Card()
	if err != nil || card.AuthenticationResult == nil {
		return false
	}
	switch card.AuthenticationResult.LiabilityShift {
	case entity.LiabilityShiftPossible, entity.LiabilityShiftYes:
		return true
	default:
		return false
	}
}
