package entity

import "encoding/json"

type LandingPage string

const (
	LandingPageLogin         LandingPage = "LOGIN"
	LandingPageGuestCheckout LandingPage = "GUEST_CHECKOUT"
	LandingPageNoPreference  LandingPage = "NO_PREFERENCE"
)

type ShippingPreference string

const (
	ShippingPreferenceGetFromFile        ShippingPreference = "GET_FROM_FILE"
	ShippingPreferenceNoShipping         ShippingPreference = "NO_SHIPPING"
	ShippingPreferenceSetProvidedAddress ShippingPreference = "SET_PROVIDED_ADDRESS"
)

type UserAction string

const (
	UserActionContinue UserAction = "CONTINUE"
	UserActionPayNow   UserAction = "PAY_NOW"
)

type PaymentMethodPreference string

const (
	PaymentMethodUnrestricted             PaymentMethodPreference = "UNRESTRICTED"
	PaymentMethodImmediatePaymentRequired PaymentMethodPreference = "IMMEDIATE_PAYMENT_REQUIRED"
)

type ContactPreference string

const (
	ContactPreferenceNoContactInfo     ContactPreference = "NO_CONTACT_INFO"
	ContactPreferenceUpdateContactInfo ContactPreference = "UPDATE_CONTACT_INFO"
)

type CallbackEvent string

const (
	CallbackEventShippingAddress CallbackEvent = "SHIPPING_ADDRESS"
	CallbackEventShippingOptions CallbackEvent = "SHIPPING_OPTIONS"
)

type CallbackConfig struct {
	Events []CallbackEvent `json:"callback_events"`
	URL    string          `json:"callback_url"`
}

func NewCallbackConfig(url string, events ...CallbackEvent) *CallbackConfig {
	return &CallbackConfig{Events: append([]CallbackEvent(nil), events...), URL: url}
}

// ExperienceContext configures the buyer-facing checkout experience.
// Setters return a modified copy; the receiver is never changed.
// Empty fields are omitted from the request.
type ExperienceContext struct {
	returnURL               string
	cancelURL               string
	brandName               string
	locale                  string
	landingPage             LandingPage
	shippingPreference      ShippingPreference
	userAction              UserAction
	paymentMethodPreference PaymentMethodPreference
	contactPreference       ContactPreference
	callbackConfig          *CallbackConfig
}

func (e ExperienceContext) ReturnURL() string { return e.returnURL }
func (e ExperienceContext) CancelURL() string { return e.cancelURL }
func (e ExperienceContext) BrandName() string { return e.brandName }
func (e ExperienceContext) Locale() string    { return e.locale }

func (e ExperienceContext) LandingPage() LandingPage { return e.landingPage }

func (e ExperienceContext) ShippingPreference() ShippingPreference { return e.shippingPreference }

func (e ExperienceContext) UserAction() UserAction { return e.userAction }

func (e ExperienceContext) PaymentMethodPreference() PaymentMethodPreference {
	return e.paymentMethodPreference
}

func (e ExperienceContext) ContactPreference() ContactPreference { return e.contactPreference }

func (e ExperienceContext) CallbackConfig() *CallbackConfig { return e.callbackConfig }

func (e ExperienceContext) WithReturnURL(url string) ExperienceContext {
	e.returnURL = url
	return e
}

func (e ExperienceContext) WithCancelURL(url string) ExperienceContext {
	e.cancelURL = url
	return e
}

func (e ExperienceContext) WithBrandName(name string) ExperienceContext {
	e.brandName = name
	return e
}

func (e ExperienceContext) WithLocale(locale string) ExperienceContext {
	e.locale = locale
	return e
}

// WithLandingPage maps the legacy BILLING value to GUEST_CHECKOUT.
func (e ExperienceContext) WithLandingPage(page LandingPage) ExperienceContext {
	if page == "BILLING" {
		page = LandingPageGuestCheckout
	}
	e.landingPage = page
	return e
}

func (e ExperienceContext) WithShippingPreference(pref ShippingPreference) ExperienceContext {
	e.shippingPreference = pref
	return e
}

func (e ExperienceContext) WithUserAction(action UserAction) ExperienceContext {
	e.userAction = action
	return e
}

func (e ExperienceContext) WithPaymentMethodPreference(pref PaymentMethodPreference) ExperienceContext {
	e.paymentMethodPreference = pref
	return e
}

func (e ExperienceContext) WithContactPreference(pref ContactPreference) ExperienceContext {
	e.contactPreference = pref
	return e
}

func (e ExperienceContext) WithOrderUpdateCallbackConfig(cfg *CallbackConfig) ExperienceContext {
	if cfg != nil {
		cfg = NewCallbackConfig(cfg.URL, cfg.Events...)
	}
	e.callbackConfig = cfg
	return e
}

func (e ExperienceContext) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ReturnURL               string                  `json:"return_url,omitempty"`
		CancelURL               string                  `json:"cancel_url,omitempty"`
		BrandName               string                  `json:"brand_name,omitempty"`
		Locale                  string                  `json:"locale,omitempty"`
		LandingPage             LandingPage             `json:"landing_page,omitempty"`
		ShippingPreference      ShippingPreference      `json:"shipping_preference,omitempty"`
		UserAction              UserAction              `json:"user_action,omitempty"`
		PaymentMethodPreference PaymentMethodPreference `json:"payment_method_preference,omitempty"`
		ContactPreference       ContactPreference       `json:"contact_preference,omitempty"`
		CallbackConfig          *CallbackConfig         `json:"order_update_callback_config,omitempty"`
	}{
		e.returnURL, e.cancelURL, e.brandName, e.locale, e.landingPage, e.shippingPreference,
		e.userAction, e.paymentMethodPreference, e.contactPreference, e.callbackConfig,
	})
}
