// Package processor writes processor results back onto platform orders.
package processor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/event"
	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/model"
	"paypal-payments-gateway/internal/repository"
	"paypal-payments-gateway/internal/storefront"
)

// Payment sources whose payer email can be trusted.
var payerEmailSources = map[string]bool{
	entity.PaymentSourcePayPal: true,
	entity.PaymentSourceVenmo:  true,
}

type OrderMeta struct {
	orders      repository.OrderRepository
	captures    repository.CaptureRepository
	publisher   event.Publisher
	paymentMode string
	validate    *validator.Validate
	log         *slog.Logger
}

func NewOrderMeta(
	orders repository.OrderRepository,
	captures repository.CaptureRepository,
	publisher event.Publisher,
	paymentMode string,
	log *slog.Logger,
) *OrderMeta {
	return &OrderMeta{
		orders:      orders,
		captures:    captures,
		publisher:   publisher,
		paymentMode: paymentMode,
		validate:    validator.New(),
		log:         log,
	}
}

// AddPayPalMeta stores the processor order reference, intent, payment mode,
// payment source and payer email on the order. Contact details the buyer
// entered at the processor replace the billing ones, the originals are kept.
func (m *OrderMeta) AddPayPalMeta(ctx context.Context, tx *gorm.DB, order *model.Order, ppOrder *entity.Order) error {
	meta := map[string]string{
		storefront.MetaPayPalOrderID: ppOrder.ID,
		storefront.MetaIntent:        ppOrder.Intent,
		storefront.MetaPaymentMode:   m.paymentMode,
	}
	source := ppOrder.PaymentSourceName()
	if source != "" {
		meta[storefront.MetaPaymentSource] = source
	}
	if payerEmailSources[source] && ppOrder.Payer != nil && ppOrder.Payer.EmailAddress != "" {
		meta[storefront.MetaPayerEmail] = ppOrder.Payer.EmailAddress
	}

	contacts := m.contactOverrides(order, ppOrder)
	for k, v := range contacts {
		meta[k] = v
	}

	if err := m.orders.SetMeta(ctx, tx, order.ID, meta); err != nil {
		return fmt.Errorf("save paypal meta: %w", err)
	}
	if len(contacts) > 0 {
		err := m.orders.UpdateBilling(ctx, tx, order.ID,
			contacts[storefront.MetaContactEmail], contacts[storefront.MetaContactPhone])
		if err != nil {
			return fmt.Errorf("apply contact details: %w", err)
		}
		m.publish(ctx, event.New(event.ContactsAdded, order.ID, ppOrder.ID, contacts))
	}

	m.publish(ctx, event.New(event.OrderCreated, order.ID, ppOrder.ID, map[string]string{
		"intent":         ppOrder.Intent,
		"payment_source": source,
	}))
	return nil
}

// contactOverrides returns the contact meta to write, or nil when the
// processor's shipping contact matches the billing record.
func (m *OrderMeta) contactOverrides(order *model.Order, ppOrder *entity.Order) map[string]string {
	shipping := shippingDetails(ppOrder)
	if shipping == nil {
		return nil
	}

	out := map[string]string{}
	email := shipping.EmailAddress
	if email != "" && m.validate.Var(email, "required,email") == nil &&
		order.BillingEmail != "" && order.BillingEmail != email {
		out[storefront.MetaContactEmail] = email
		out[storefront.MetaOriginalBillingEmail] = order.BillingEmail
	}
	if shipping.Phone != nil {
		phone := shipping.Phone.NationalNumber
		if phone != "" && order.BillingPhone != "" && order.BillingPhone != phone {
			out[storefront.MetaContactPhone] = phone
			out[storefront.MetaOriginalBillingPhone] = order.BillingPhone
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func shippingDetails(ppOrder *entity.Order) *entity.Shipping {
	for _, pu := range ppOrder.PurchaseUnits {
		if pu.Shipping != nil {
			return pu.Shipping
		}
	}
	return nil
}

// publish never fails the caller; notifications are advisory.
func (m *OrderMeta) publish(ctx context.Context, e event.Event) {
	if err := m.publisher.Publish(ctx, e); err != nil {
		m.log.WarnContext(ctx, "publish order event",
			slog.String("type", string(e.Type)), logger.Err(err), logger.Traced(ctx))
	}
}
