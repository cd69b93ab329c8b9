package models

import (
	"github.com/go-playground/validator/v10"
)

type enumerated interface {
	Valid() bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(enumerated)
		return ok && e.Valid()
	})
	return v
}

// Validate checks the struct tags of v, including the closed enums.
func Validate(v any) error {
	return validate.Struct(v)
}
