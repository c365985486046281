package entity

import "errors"

var (
	// ErrMalformedResponse marks processor payloads missing a required field.
	ErrMalformedResponse = errors.New("malformed processor response")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	// ErrAmountMismatch means the processor amount differs from the order total.
	ErrAmountMismatch = errors.New("payment amount does not match the order total")
)
