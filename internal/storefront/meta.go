package storefront

// Order meta keys written by the gateway. Previously processed orders
// carry them, so they never change.
const (
	MetaPayPalOrderID        = "_ppcp_paypal_order_id"
	MetaIntent               = "_ppcp_paypal_intent"
	MetaPaymentMode          = "_ppcp_paypal_payment_mode"
	MetaPaymentSource        = "_ppcp_paypal_payment_source"
	MetaPayerEmail           = "_ppcp_paypal_payer_email"
	MetaContactEmail         = "_ppcp_paypal_contact_email"
	MetaContactPhone         = "_ppcp_paypal_contact_phone"
	MetaOriginalBillingEmail = "_ppcp_paypal_original_billing_email"
	MetaOriginalBillingPhone = "_ppcp_paypal_original_billing_phone"
	MetaCaptured             = "_ppcp_paypal_captured"
	MetaFees                 = "_ppcp_paypal_fees"
	MetaTransactionID        = "_ppcp_paypal_transaction_id"
	MetaRefundIDs            = "_ppcp_paypal_refund_ids"
	MetaRefundedTotal        = "_ppcp_paypal_refunded_total"
	MetaExpectedTotal        = "_ppcp_paypal_expected_total"
	MetaAmountMismatch       = "_ppcp_paypal_amount_mismatch"
)

// Platform order statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusOnHold     = "on-hold"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
	StatusFailed     = "failed"
)

// IsPaid reports whether the status means payment was received.
func IsPaid(status string) bool {
	return status == StatusProcessing || status == StatusCompleted || status == StatusRefunded
}
