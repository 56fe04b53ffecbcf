package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	perrors "github.com/abgdnv/productboard/internal/product/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Prices are stored as NUMERIC(10,2) and names as VARCHAR(255).
const (
	MinPrice      = "0.01"
	MaxPrice      = "99999999.99"
	MaxNameLength = 255

	// a price is at least 1e8 once its integer part has more than maxIntegerDigits digits.
	maxIntegerDigits = 8
	// formatMagnitude bounds the zeros String adds beyond the coefficient.
	formatMagnitude = 32
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			if !formattable(d) {
				return ""
			}
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	if err := v.RegisterValidation("price_min", priceMin); err != nil {
		panic(fmt.Sprintf("failed to register price_min validation: %v", err))
	}
	if err := v.RegisterValidation("price_max", priceMax); err != nil {
		panic(fmt.Sprintf("failed to register price_max validation: %v", err))
	}
	return v
}

// priceMin compares a decimal price, seen as its string form, against the tag parameter.
func priceMin(fl validator.FieldLevel) bool {
	return comparePrice(fl, func(price, bound decimal.Decimal) bool {
		return price.GreaterThanOrEqual(bound)
	})
}

func priceMax(fl validator.FieldLevel) bool {
	return comparePrice(fl, func(price, bound decimal.Decimal) bool {
		return price.LessThanOrEqual(bound)
	})
}

func comparePrice(fl validator.FieldLevel, ok func(price, bound decimal.Decimal) bool) bool {
	bound, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}
	var price decimal.Decimal
	switch v := fl.Field().Interface().(type) {
	case decimal.Decimal:
		price = v
	case string:
		if price, err = decimal.NewFromString(v); err != nil {
			return false
		}
	default:
		return false
	}
	return ok(price, bound)
}

// magnitude is the number of digits left of the decimal point, negative for
// values below 0.1. It only reads the coefficient length and the exponent.
func magnitude(d decimal.Decimal) int {
	return d.NumDigits() + int(d.Exponent())
}

// formattable reports whether d.String() stays proportional to the input.
// A short coefficient with a huge exponent would expand to millions of zeros.
func formattable(d decimal.Decimal) bool {
	m := magnitude(d)
	return m >= -formatMagnitude && m <= formatMagnitude
}

// priceRangeMessage checks the bounds of a price without formatting it and
// returns the message of the first failed bound, or "" when price is in range
// as far as a cheap check can tell. The validator tags do the exact comparison.
func priceRangeMessage(field string, price decimal.Decimal) string {
	switch {
	case price.Sign() <= 0:
		return MinPriceMessage(field)
	case magnitude(price) > maxIntegerDigits:
		return MaxPriceMessage(field)
	case magnitude(price) < -1:
		return MinPriceMessage(field)
	}
	return ""
}

// ValidateCreate checks a create request and returns one message per failing field,
// or nil when the request is valid.
func ValidateCreate(dto ProductCreateDto) *perrors.ValidationError {
	verr := perrors.NewValidationError()
	if dto.Price != nil {
		if msg := priceRangeMessage("price", *dto.Price); msg != "" {
			verr.Add("price", msg)
		}
	}
	err := validate.Struct(dto)
	if err == nil {
		if verr.Empty() {
			return nil
		}
		return verr
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		verr.Add("product", err.Error())
		return verr
	}
	for _, fe := range validationErrors {
		if verr.Has(fe.Field()) {
			continue
		}
		verr.Add(fe.Field(), ruleMessage(fe))
	}
	return verr
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return RequiredMessage(fe.Field())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", fe.Field(), fe.Param())
	case "price_min":
		return fmt.Sprintf("The %s field must be at least %s.", fe.Field(), fe.Param())
	case "price_max":
		return fmt.Sprintf("The %s field must not be greater than %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}

func RequiredMessage(field string) string {
	return fmt.Sprintf("The %s field is required.", field)
}

func StringMessage(field string) string {
	return fmt.Sprintf("The %s field must be a string.", field)
}

func NumberMessage(field string) string {
	return fmt.Sprintf("The %s field must be a number.", field)
}

func MinPriceMessage(field string) string {
	return fmt.Sprintf("The %s field must be at least %s.", field, MinPrice)
}

func MaxPriceMessage(field string) string {
	return fmt.Sprintf("The %s field must not be greater than %s.", field, MaxPrice)
}
