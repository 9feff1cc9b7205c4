package validator

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MaxSkuLength is the longest SKU accepted, in characters.
const MaxSkuLength = 64

// Validator is a validator that validates the given struct.
type Validator interface {
	// Validate validates the given struct
	Validate(s any) error
}

type DefaultValidator struct {
	v *validator.Validate
}

// NewDefaultValidator creates a new default validator.
// It returns a new DefaultValidator and an error if the validator registration fails.
func NewDefaultValidator() (*DefaultValidator, error) {
	v := validator.New()

	// decimal.Decimal is a struct; expose it as a number so field tags apply.
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	// Register custom validators
	if err := v.RegisterValidation("sku", validateSku); err != nil {
		return nil, fmt.Errorf("register sku validator: %w", err)
	}

	if err := v.RegisterValidation("enum", validateEnum); err != nil {
		return nil, fmt.Errorf("register enum validator: %w", err)
	}

	if err := v.RegisterValidation("nonnegative", validateNonNegative); err != nil {
		return nil, fmt.Errorf("register nonnegative validator: %w", err)
	}

	return &DefaultValidator{v: v}, nil
}

// MustNewDefaultValidator is NewDefaultValidator for package-level initialisation.
func MustNewDefaultValidator() *DefaultValidator {
	v, err := NewDefaultValidator()
	if err != nil {
		panic(err)
	}
	return v
}

func (v DefaultValidator) Validate(s any) error {
	return v.v.Struct(s)
}

// IsValidationError checks if the given error is a validation error
func IsValidationError(err error) bool {
	_, ok := err.(validator.ValidationErrors)
	return ok
}

func ValidationErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "sku":
		return fmt.Sprintf("must be printable text of at most %d characters", MaxSkuLength)
	case "nonnegative":
		return "must not be negative"
	case "enum":
		return fmt.Sprintf("invalid enum value: %v", fe.Value())
	default:
		return "is invalid"
	}
}

func validateSku(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !utf8.ValidString(s) || utf8.RuneCountInString(s) > MaxSkuLength {
		return false
	}
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

func validateEnum(fl validator.FieldLevel) bool {
	type Enum interface {
		Validate() error
	}

	value, ok := fl.Field().Interface().(Enum)
	if !ok {
		return false
	}

	return value.Validate() == nil
}

func validateNonNegative(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return !v.IsNegative()
	case float64:
		return v >= 0
	case int64:
		return v >= 0
	case int:
		return v >= 0
	default:
		return false
	}
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}
