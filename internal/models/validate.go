package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the order-specific tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("greenlabel", func(fl validator.FieldLevel) bool {
		return GreenLabel(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		return OrderStatus(fl.Field().String()).IsValid()
	})
	return v
}

// ValidateStruct runs v against s and converts failures into a ValidationError.
func ValidateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}
	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, e := range fieldErrs {
		out.Fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return out
}
