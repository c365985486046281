package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/plutov/paypal/v4"
)

type IssueDetail struct {
	Field string `json:"field,omitempty"`
	Issue string `json:"issue"`
}

// APIError is a 4xx/5xx answer from the processor.
type APIError struct {
	Status  int           `json:"-"`
	Name    string        `json:"name"`
	Message string        `json:"message"`
	DebugID string        `json:"debug_id,omitempty"`
	Details []IssueDetail `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "paypal %d %s: %s", e.Status, e.Name, e.Message)
	for _, d := range e.Details {
		b.WriteString(" [")
		if d.Field != "" {
			b.WriteString(d.Field)
			b.WriteString(": ")
		}
		b.WriteString(d.Issue)
		b.WriteString("]")
	}
	if e.DebugID != "" {
		fmt.Fprintf(&b, " (debug_id %s)", e.DebugID)
	}
	return b.String()
}

func (e *APIError) HasIssue(issue string) bool {
	for _, d := range e.Details {
		if d.Issue == issue {
			return true
		}
	}
	return false
}

func (e *APIError) IsNotFound() bool {
	return e.Status == http.StatusNotFound || e.Name == "RESOURCE_NOT_FOUND"
}

// fromPayPalError converts the transport error into an *APIError when the
// processor answered; other errors are returned as they are.
func fromPayPalError(err error) error {
	var ppErr *paypal.ErrorResponse
	if !errors.As(err, &ppErr) {
		return err
	}

	apiErr := &APIError{
		Name:    ppErr.Name,
		Message: ppErr.Message,
		DebugID: ppErr.DebugID,
	}
	if ppErr.Response != nil {
		apiErr.Status = ppErr.Response.StatusCode
	}
	for _, d := range ppErr.Details {
		apiErr.Details = append(apiErr.Details, IssueDetail{Field: d.Field, Issue: d.Issue})
	}
	return apiErr
}
