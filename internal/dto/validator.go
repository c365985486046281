package dto

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"paypal-payments-gateway/internal/entity"
)

// Validator plugs go-playground/validator into echo's Context.Validate.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidArgument, err)
	}
	return nil
}
