package entity

// Payment statuses shared by captures, authorizations and refunds.
const (
	PaymentStatusCompleted         = "COMPLETED"
	PaymentStatusPending           = "PENDING"
	PaymentStatusDeclined          = "DECLINED"
	PaymentStatusRefunded          = "REFUNDED"
	PaymentStatusPartiallyRefunded = "PARTIALLY_REFUNDED"
	PaymentStatusCreated           = "CREATED"
	PaymentStatusCaptured          = "CAPTURED"
	PaymentStatusPartiallyCaptured = "PARTIALLY_CAPTURED"
	PaymentStatusVoided            = "VOIDED"
	PaymentStatusDenied            = "DENIED"
	PaymentStatusFailed            = "FAILED"
)

// SellerReceivableBreakdown is the fee split reported on a capture.
type SellerReceivableBreakdown struct {
	GrossAmount *Money `json:"gross_amount,omitempty"`
	PaypalFee   *Money `json:"paypal_fee,omitempty"`
	NetAmount   *Money `json:"net_amount,omitempty"`
}

type Capture struct {
	ID                        string                     `json:"id"`
	Status                    string                     `json:"status"`
	StatusReason              string                     `json:"status_reason,omitempty"`
	Amount                    *Money                     `json:"amount,omitempty"`
	FinalCapture              bool                       `json:"final_capture"`
	InvoiceID                 string                     `json:"invoice_id,omitempty"`
	CustomID                  string                     `json:"custom_id,omitempty"`
	SellerReceivableBreakdown *SellerReceivableBreakdown `json:"seller_receivable_breakdown,omitempty"`
}

type Authorization struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount *Money `json:"amount,omitempty"`
}

type Refund struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount *Money `json:"amount,omitempty"`
}

type Payments struct {
	Captures       []Capture       `json:"captures,omitempty"`
	Authorizations []Authorization `json:"authorizations,omitempty"`
	Refunds        []Refund        `json:"refunds,omitempty"`
}
