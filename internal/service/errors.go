package service

import (
	"errors"
	"strings"
)

// Notices shown to the buyer when a payment cannot be completed.
const (
	MessageThreeDSFailed  = "3D Secure authentication was unavailable or failed. Please try a different payment method or contact your bank."
	MessageThreeDSRetry   = "3D Secure authentication was not completed successfully. Please try again."
	MessageDeclined       = "Your payment was declined after 3D Secure verification. Please try a different payment method or contact your bank."
	MessageGeneric        = "There was an error processing your payment. Please try again or contact support."
	MessageSessionExpired = "Payment session expired. Please try placing your order again."
	MessageOrderMissing   = "Order information is missing. Please try placing your order again."
)

var (
	ErrPaymentDeclined = errors.New("payment provider declined the payment")
	ErrThreeDSFailed   = errors.New("3D Secure authentication was unavailable or failed")
	ErrThreeDSRetry    = errors.New("3D Secure authentication needs to be retried")
)

var declinedMarkers = []string{
	"declined",
	"PAYMENT_DENIED",
	"INSTRUMENT_DECLINED",
	"Payment provider declined",
}

// UserMessage turns a checkout error into a notice the buyer can act on.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrThreeDSRetry) {
		return MessageThreeDSRetry
	}

	msg := err.Error()
	if strings.Contains(msg, "3D Secure") {
		return MessageThreeDSFailed
	}
	for _, marker := range declinedMarkers {
		if strings.Contains(msg, marker) {
			return MessageDeclined
		}
	}
	return MessageGeneric
}
