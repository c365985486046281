package entity

import "time"

type OrderStatus string

const (
	OrderStatusCreated             OrderStatus = "CREATED"
	OrderStatusSaved               OrderStatus = "SAVED"
	OrderStatusApproved            OrderStatus = "APPROVED"
	OrderStatusVoided              OrderStatus = "VOIDED"
	OrderStatusCompleted           OrderStatus = "COMPLETED"
	OrderStatusPayerActionRequired OrderStatus = "PAYER_ACTION_REQUIRED"
)

const (
	IntentCapture   = "CAPTURE"
	IntentAuthorize = "AUTHORIZE"
)

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

type PayerName struct {
	GivenName string `json:"given_name,omitempty"`
	Surname   string `json:"surname,omitempty"`
}

type Payer struct {
	PayerID      string     `json:"payer_id,omitempty"`
	EmailAddress string     `json:"email_address,omitempty"`
	Name         *PayerName `json:"name,omitempty"`
}

// Order is the processor's view of a checkout order.
type Order struct {
	ID            string
	Intent        string
	Status        OrderStatus
	PurchaseUnits []PurchaseUnit
	Payer         *Payer
	PaymentSource *PaymentSource
	CreateTime    *time.Time
	UpdateTime    *time.Time
	Links         []Link
}

// PurchaseUnit returns the first purchase unit or nil.
func (o *Order) PurchaseUnit() *PurchaseUnit {
	if len(o.PurchaseUnits) == 0 {
		return nil
	}
	return &o.PurchaseUnits[0]
}

func (o *Order) Link(rel string) string {
	for _, l := range o.Links {
		if l.Rel == rel {
			return l.Href
		}
	}
	return ""
}

// ApprovalURL is where the buyer approves the order.
func (o *Order) ApprovalURL() string {
	if href := o.Link("payer-action"); href != "" {
		return href
	}
	return o.Link("approve")
}

// PaymentSourceName is the payment source key, or "" when none was used.
func (o *Order) PaymentSourceName() string {
	if o.PaymentSource == nil {
		return ""
	}
	return o.PaymentSource.Name
}

func (o *Order) Captures() []Capture {
	var captures []Capture
	for _, pu := range o.PurchaseUnits {
		if pu.Payments != nil {
			captures = append(captures, pu.Payments.Captures...)
		}
	}
	return captures
}

func (o *Order) Authorizations() []Authorization {
	var auths []Authorization
	for _, pu := range o.PurchaseUnits {
		if pu.Payments != nil {
			auths = append(auths, pu.Payments.Authorizations...)
		}
	}
	return auths
}
