// Package experience composes the buyer-facing checkout experience
// sent with processor orders.
package experience

import (
	"net/url"
	"regexp"
	"strings"

	"paypal-payments-gateway/internal/entity"
)

// ReturnEndpointPath is where the processor sends the buyer back.
const ReturnEndpointPath = "/paypal/return"

var bcp47Locale = regexp.MustCompile(`^[a-z]{2}(?:-[A-Z][a-z]{3})?(?:-(?:[A-Z]{2}))?$`)

// Settings are the merchant choices the builder reads.
type Settings struct {
	BrandName      string
	LandingPage    entity.LandingPage
	PayeePreferred bool
	Locale         string
	BaseURL        string
	CheckoutURL    string
}

// Builder composes an ExperienceContext. Every With call returns a new
// Builder, so a base configuration can be shared safely.
type Builder struct {
	context  entity.ExperienceContext
	settings Settings
	locale   string
}

func NewBuilder(settings Settings) Builder {
	return Builder{settings: settings, locale: settings.Locale}
}

// ForUserLocale sets the locale of the current request. Empty keeps the shop default.
func (b Builder) ForUserLocale(locale string) Builder {
	if locale != "" {
		b.locale = locale
	}
	return b
}

// WithDefaultPayPalConfig applies the shop defaults. Empty arguments
// mean NO_SHIPPING and CONTINUE.
func (b Builder) WithDefaultPayPalConfig(shipping entity.ShippingPreference, action entity.UserAction) Builder {
	if shipping == "" {
		shipping = entity.ShippingPreferenceNoShipping
	}
	if action == "" {
		action = entity.UserActionContinue
	}
	b = b.WithCurrentLocale().
		WithCurrentBrandName().
		WithCurrentLandingPage().
		WithCurrentPaymentMethodPreference().
		WithEndpointReturnURLs()
	b.context = b.context.WithShippingPreference(shipping).WithUserAction(action)
	return b
}

func (b Builder) WithEndpointReturnURLs() Builder {
	b.context = b.context.
		WithReturnURL(strings.TrimRight(b.settings.BaseURL, "/") + ReturnEndpointPath).
		WithCancelURL(b.settings.CheckoutURL)
	return b
}

// WithOrderReturnURLs returns the buyer to the order received page;
// cancelling adds cancelled=true to it.
func (b Builder) WithOrderReturnURLs(orderReceivedURL string) Builder {
	b.context = b.context.
		WithReturnURL(orderReceivedURL).
		WithCancelURL(addQueryArg(orderReceivedURL, "cancelled", "true"))
	return b
}

func (b Builder) WithCustomReturnURL(u string) Builder {
	b.context = b.context.WithReturnURL(u)
	return b
}

func (b Builder) WithCustomCancelURL(u string) Builder {
	b.context = b.context.WithCancelURL(u)
	return b
}

func (b Builder) WithCurrentBrandName() Builder {
	b.context = b.context.WithBrandName(strings.TrimSpace(b.settings.BrandName))
	return b
}

func (b Builder) WithCurrentLocale() Builder {
	b.context = b.context.WithLocale(LocaleToBCP47(b.locale))
	return b
}

func (b Builder) WithCurrentLandingPage() Builder {
	page := b.settings.LandingPage
	if page == "" {
		page = entity.LandingPageNoPreference
	}
	b.context = b.context.WithLandingPage(page)
	return b
}

func (b Builder) WithCurrentPaymentMethodPreference() Builder {
	pref := entity.PaymentMethodUnrestricted
	if b.settings.PayeePreferred {
		pref = entity.PaymentMethodImmediatePaymentRequired
	}
	b.context = b.context.WithPaymentMethodPreference(pref)
	return b
}

func (b Builder) WithShippingPreference(pref entity.ShippingPreference) Builder {
	b.context = b.context.WithShippingPreference(pref)
	return b
}

func (b Builder) WithUserAction(action entity.UserAction) Builder {
	b.context = b.context.WithUserAction(action)
	return b
}

// WithShippingCallback asks the processor to call back for address and
// option changes.
func (b Builder) WithShippingCallback(callbackURL string) Builder {
	b.context = b.context.WithOrderUpdateCallbackConfig(entity.NewCallbackConfig(
		callbackURL,
		entity.CallbackEventShippingAddress,
		entity.CallbackEventShippingOptions,
	))
	return b
}

// WithContactPreference sets the preference; empty omits it.
func (b Builder) WithContactPreference(pref entity.ContactPreference) Builder {
	b.context = b.context.WithContactPreference(pref)
	return b
}

func (b Builder) Build() entity.ExperienceContext {
	return b.context
}

// LocaleToBCP47 converts a shop locale such as de_DE_formal to BCP-47.
// Unparseable locales fall back to "en".
func LocaleToBCP47(locale string) string {
	locale = strings.ReplaceAll(locale, "_", "-")
	if bcp47Locale.MatchString(locale) {
		return locale
	}
	if parts := strings.Split(locale, "-"); len(parts) == 3 {
		return locale[:strings.LastIndex(locale, "-")]
	}
	return "en"
}

func addQueryArg(raw, key, value string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
