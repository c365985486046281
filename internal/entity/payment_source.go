package entity

import (
	"encoding/json"
	"fmt"
)

const (
	PaymentSourcePayPal    = "paypal"
	PaymentSourceVenmo     = "venmo"
	PaymentSourcePayLater  = "paylater"
	PaymentSourceCard      = "card"
	PaymentSourceApplePay  = "apple_pay"
	PaymentSourceGooglePay = "google_pay"
)

// PaymentSource is the single entry of an order's payment_source object.
type PaymentSource struct {
	Name       string
	Properties json.RawMessage
}

type LiabilityShift string

const (
	LiabilityShiftPossible LiabilityShift = "POSSIBLE"
	LiabilityShiftYes      LiabilityShift = "YES"
	LiabilityShiftNo       LiabilityShift = "NO"
	LiabilityShiftUnknown  LiabilityShift = "UNKNOWN"
)

// 3-D Secure enrollment statuses.
const (
	EnrollmentStatusYes         = "Y"
	EnrollmentStatusNo          = "N"
	EnrollmentStatusUnavailable = "U"
	EnrollmentStatusBypass      = "B"
)

// 3-D Secure authentication statuses.
const (
	AuthenticationResultYes               = "Y"
	AuthenticationResultNo                = "N"
	AuthenticationResultRejected          = "R"
	AuthenticationResultAttempted         = "A"
	AuthenticationResultUnable            = "U"
	AuthenticationResultChallengeRequired = "C"
	AuthenticationResultInfo              = "I"
	AuthenticationResultDecoupled         = "D"
)

type CardAuthenticationResult struct {
	LiabilityShift       LiabilityShift
	EnrollmentStatus     string
	AuthenticationStatus string
}

type CardDetails struct {
	Brand                string
	LastDigits           string
	AuthenticationResult *CardAuthenticationResult
}

type cardJSON struct {
	Brand                string `json:"brand"`
	LastDigits           string `json:"last_digits"`
	AuthenticationResult *struct {
		LiabilityShift LiabilityShift `json:"liability_shift"`
		ThreeDSecure   struct {
			EnrollmentStatus     string `json:"enrollment_status"`
			AuthenticationStatus string `json:"authentication_status"`
		} `json:"three_d_secure"`
	} `json:"authentication_result"`
}

// Card decodes the card properties. Wallets nest them under a "card" key.
func (p PaymentSource) Card() (*CardDetails, error) {
	if len(p.Properties) == 0 {
		return &CardDetails{}, nil
	}
	var wrapper struct {
		Card *json.RawMessage `json:"card"`
	}
	if err := json.Unmarshal(p.Properties, &wrapper); err != nil {
		return nil, fmt.Errorf("decode payment source %s: %w", p.Name, err)
	}
	raw := p.Properties
	if wrapper.Card != nil {
		raw = *wrapper.Card
	}

	var card cardJSON
	if err := json.Unmarshal(raw, &card); err != nil {
		return nil, fmt.Errorf("decode card properties: %w", err)
	}

	details := &CardDetails{Brand: card.Brand, LastDigits: card.LastDigits}
	if card.AuthenticationResult != nil {
		details.AuthenticationResult = &CardAuthenticationResult{
			LiabilityShift:       card.AuthenticationResult.LiabilityShift,
			EnrollmentStatus:     card.AuthenticationResult.ThreeDSecure.EnrollmentStatus,
			AuthenticationStatus: card.AuthenticationResult.ThreeDSecure.AuthenticationStatus,
		}
	}
	return details, nil
}

// EmailAddress returns the payer email carried by wallet sources.
func (p PaymentSource) EmailAddress() string {
	if len(p.Properties) == 0 {
		return ""
	}
	var props struct {
		EmailAddress string `json:"email_address"`
	}
	if err := json.Unmarshal(p.Properties, &props); err != nil {
		return ""
	}
	return props.EmailAddress
}
