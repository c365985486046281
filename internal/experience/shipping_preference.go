package experience

import (
	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/factory"
	"paypal-payments-gateway/internal/storefront"
)

// ShippingState is everything the shipping preference depends on.
type ShippingState struct {
	PurchaseUnit  entity.PurchaseUnit
	Context       string
	Cart          *storefront.Cart
	FundingSource string
	Order         *storefront.Order
}

// ShippingPreferenceOverride is consulted before the default rules.
// ok=false defers to the next override or the rules.
type ShippingPreferenceOverride func(state ShippingState) (pref entity.ShippingPreference, ok bool)

type ShippingPreferencePolicy struct {
	overrides []ShippingPreferenceOverride
}

func NewShippingPreferencePolicy(overrides ...ShippingPreferenceOverride) *ShippingPreferencePolicy {
	return &ShippingPreferencePolicy{overrides: overrides}
}

func (p *ShippingPreferencePolicy) FromState(state ShippingState) entity.ShippingPreference {
	for _, override := range p.overrides {
		if pref, ok := override(state); ok && pref != "" {
			return pref
		}
	}

	if !state.PurchaseUnit.ContainsPhysicalGoods() {
		return entity.ShippingPreferenceNoShipping
	}

	hasShipping := state.PurchaseUnit.Shipping != nil
	needsShipping := (state.Order != nil && state.Order.NeedsShipping) ||
		(state.Cart != nil && state.Cart.NeedsShipping)
	if !needsShipping {
		return entity.ShippingPreferenceNoShipping
	}

	addressFixed := state.Context == factory.ContextCheckout || state.Context == factory.ContextPayNow
	if addressFixed || state.FundingSource == entity.PaymentSourceCard {
		if !hasShipping {
			return entity.ShippingPreferenceNoShipping
		}
		return entity.ShippingPreferenceSetProvidedAddress
	}

	return entity.ShippingPreferenceGetFromFile
}
