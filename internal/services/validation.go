package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"inventory/internal/models"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field name to a human readable message.
// An empty FieldErrors means the input is valid.
type FieldErrors map[string]string

// Add records msg for field unless the field already has a message.
func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

// HasErrors reports whether at least one field failed.
func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields under their form names ("name", "price", ...).
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateProduct runs the struct constraints declared on models.Product.
func validateProduct(v *validator.Validate, p *models.Product) FieldErrors {
	fieldErrors := FieldErrors{}
	err := v.Struct(p)
	if err == nil {
		return fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fieldErrors.Add("product", err.Error())
		return fieldErrors
	}
	for _, e := range validationErrors {
		fieldErrors.Add(e.Field(), message(e))
	}
	return fieldErrors
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "must not be empty"
	case "min", "max":
		return "size must be between 2 and 50"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
}
