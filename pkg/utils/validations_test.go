package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type sampleInput struct {
	Email     string          `validate:"isemail"`
	Direction string          `validate:"direction"`
	Form      string          `validate:"paymentform"`
	Amount    decimal.Decimal `validate:"gt=0"`
}

func TestCustomValidator(t *testing.T) {
	v := NewCustomValidator(nil).Validator

	ok := sampleInput{
		Email:     "ana@example.com",
		Direction: "outflow",
		Form:      "installment",
		Amount:    decimal.RequireFromString("0.01"),
	}
	assert.NoError(t, v.Struct(ok))

	cases := map[string]func(*sampleInput){
		"email":     func(s *sampleInput) { s.Email = "not-an-email" },
		"direction": func(s *sampleInput) { s.Direction = "sideways" },
		"form":      func(s *sampleInput) { s.Form = "barter" },
		"zero":      func(s *sampleInput) { s.Amount = decimal.Zero },
		"negative":  func(s *sampleInput) { s.Amount = decimal.NewFromInt(-3) },
	}
	for name, mutate := range cases {
		in := ok
		mutate(&in)
		assert.Error(t, v.Struct(in), name)
	}
}
