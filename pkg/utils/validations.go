package utils

import (
	"net/mail"
	"reflect"
	"strings"

	"github.com/capital/finance/pkg/entities"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type CustomValidator struct {
	Validator *validator.Validate
}

// NewCustomValidator registers the project validations on v, usually gin's
// binding engine.
func NewCustomValidator(v *validator.Validate) *CustomValidator {
	if v == nil {
		v = validator.New()
	}
	Validator := &CustomValidator{v}
	Validator.ValidatorRegistery()
	return Validator
}

func (c *CustomValidator) ValidatorRegistery() {
	c.Validator.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	c.Validator.RegisterValidation("isemail", c.IsValidEmail)
	c.Validator.RegisterValidation("direction", c.IsValidDirection)
	c.Validator.RegisterValidation("paymentform", c.IsValidPaymentForm)
}

// decimalValue lets numeric tags (gt, gte, ...) apply to decimal fields.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

func (c *CustomValidator) IsValidEmail(fl validator.FieldLevel) bool {
	email := strings.TrimSpace(fl.Field().String())
	_, err := mail.ParseAddress(email)
	return err == nil
}

func (c *CustomValidator) IsValidDirection(fl validator.FieldLevel) bool {
	return entities.Direction(fl.Field().String()).Valid()
}

func (c *CustomValidator) IsValidPaymentForm(fl validator.FieldLevel) bool {
	return entities.PaymentForm(fl.Field().String()).Valid()
}
