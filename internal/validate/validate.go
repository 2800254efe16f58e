// Package validate checks request inputs against their struct tags.
package validate

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerbook/internal/errs"
)

// Validator wraps a go-playground validator that understands decimal amounts.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator. It is safe for concurrent use.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return &Validator{v: v}
}

// decimalValue exposes a decimal to numeric tags like gte and lte.
// The sign always matches the decimal, so tags comparing against zero are exact.
func decimalValue(field reflect.Value) any {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f := d.InexactFloat64()
	switch {
	case d.IsNegative() && f >= 0:
		return -math.SmallestNonzeroFloat64
	case d.IsPositive() && f <= 0:
		return math.SmallestNonzeroFloat64
	}
	return f
}

// Struct validates s and returns an errs.ErrValidation listing every failed field.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.Validation("%v", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return errs.Validation("%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
