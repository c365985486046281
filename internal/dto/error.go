package dto

import "paypal-payments-gateway/internal/client"

// ErrorResponse follows the processor's error shape so the frontend can
// read both the same way.
type ErrorResponse struct {
	Name    string               `json:"name"`
	Message string               `json:"message,omitempty"`
	DebugID string               `json:"debug_id,omitempty"`
	Details []client.IssueDetail `json:"details,omitempty"`
}
