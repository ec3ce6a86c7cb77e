// Package validation checks engine inputs against their struct tags.
//
// Decimal fields use custom tags registered on a shared validator:
//
//	nonneg   value >= 0
//	pct      value in [0,100]
//	vatrate  value in [0,100], reported as a pricing error
//
// Violations are mapped onto domain error kinds: pct failures become
// INVALID_FACTOR, everything else on an item becomes INVALID_PRICING_INPUT.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"solar-capex/core/determinism"
	"solar-capex/internal/errors"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator. It is safe for concurrent use.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		// Struct-typed fields skip custom tags, so decimals are validated
		// through their exact string form.
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})
		mustRegister(v, "nonneg", func(fl validator.FieldLevel) bool {
			d, ok := asDecimal(fl)
			return ok && !d.IsNegative()
		})
		mustRegister(v, "pct", func(fl validator.FieldLevel) bool {
			d, ok := asDecimal(fl)
			return ok && determinism.InPercentRange(d)
		})
		mustRegister(v, "vatrate", func(fl validator.FieldLevel) bool {
			d, ok := asDecimal(fl)
			return ok && determinism.InPercentRange(d)
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

func asDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	switch v := fl.Field().Interface().(type) {
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	case decimal.Decimal:
		return v, true
	}
	return decimal.Zero, false
}

// Item validates one line item. itemID is attached to the returned error.
func Item(itemID string, item any) error {
	return check(item, func(fe validator.FieldError) *errors.Error {
		if fe.Tag() == "pct" {
			return errors.InvalidFactor(fe.Namespace(), describe(fe)).WithContext("item_id", itemID)
		}
		return errors.InvalidPricingInput(itemID, describe(fe)).WithContext("field", fe.Namespace())
	})
}

// Percentages validates a struct whose decimal fields are percentages,
// such as a markup configuration
func Percentages(v any) error {
	return check(v, func(fe validator.FieldError) *errors.Error {
		return errors.InvalidFactor(fe.Namespace(), describe(fe))
	})
}

// Variables validates scenario variables; violations are input errors
func Variables(v any) error {
	return check(v, func(fe validator.FieldError) *errors.Error {
		return errors.Newf(errors.TypeInput, "%s", describe(fe)).WithContext("field", fe.Namespace())
	})
}

func check(v any, mapErr func(validator.FieldError) *errors.Error) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return errors.Internal("validation failed", err)
	}
	// First violation in struct order; the rest are listed in context.
	first := mapErr(fieldErrs[0])
	if len(fieldErrs) > 1 {
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fe.Namespace())
		}
		first.WithContext("violations", fields)
	}
	return first
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "nonneg":
		return fmt.Sprintf("%s must not be negative (got %v)", field, fe.Value())
	case "pct":
		return fmt.Sprintf("%s must be within [0,100] (got %v)", field, fe.Value())
	case "vatrate":
		return fmt.Sprintf("%s must be within [0,100] (got %v)", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s (got %v)", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation (got %v)", field, fe.Tag(), fe.Value())
	}
}
