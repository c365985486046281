package experience

import "paypal-payments-gateway/internal/entity"

const FeatureContactModule = "contact_module"

// MerchantEligibility reports which processor features the merchant account supports.
type MerchantEligibility interface {
	IsEligibleFor(feature string) bool
}

// StaticEligibility is a fixed feature set, typically loaded from config.
type StaticEligibility map[string]bool

func (e StaticEligibility) IsEligibleFor(feature string) bool {
	return e[feature]
}

type ContactPreferencePolicy struct {
	moduleActive bool
	eligibility  MerchantEligibility
}

func NewContactPreferencePolicy(moduleActive bool, eligibility MerchantEligibility) *ContactPreferencePolicy {
	return &ContactPreferencePolicy{moduleActive: moduleActive, eligibility: eligibility}
}

// FromState returns "" for payment sources without contact support.
func (p *ContactPreferencePolicy) FromState(paymentSource string) entity.ContactPreference {
	switch paymentSource {
	case entity.PaymentSourcePayPal, entity.PaymentSourceVenmo:
	default:
		return ""
	}
	if !p.moduleActive || p.eligibility == nil || !p.eligibility.IsEligibleFor(FeatureContactModule) {
		return entity.ContactPreferenceNoContactInfo
	}
	return entity.ContactPreferenceUpdateContactInfo
}
