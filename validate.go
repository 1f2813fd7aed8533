package configmgmt

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Min rejects values below minimum.
func Min[T cmp.Ordered](minimum T) Validator[T] {
	return func(value T) error {
		if value < minimum {
			return fmt.Errorf("value %v is below minimum %v", value, minimum)
		}
		return nil
	}
}

// Max rejects values above maximum.
func Max[T cmp.Ordered](maximum T) Validator[T] {
	return func(value T) error {
		if value > maximum {
			return fmt.Errorf("value %v exceeds maximum %v", value, maximum)
		}
		return nil
	}
}

// Between rejects values outside [minimum, maximum].
func Between[T cmp.Ordered](minimum, maximum T) Validator[T] {
	lower, upper := Min(minimum), Max(maximum)
	return func(value T) error {
		if err := lower(value); err != nil {
			return err
		}
		return upper(value)
	}
}

// OneOf rejects values that are not in allowed.
func OneOf[T comparable](allowed ...T) Validator[T] {
	return func(value T) error {
		if slices.Contains(allowed, value) {
			return nil
		}
		return fmt.Errorf("value %v must be one of: %v", value, allowed)
	}
}

// NotBlank rejects strings that are empty or whitespace only.
func NotBlank() Validator[string] {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("value is blank")
		}
		return nil
	}
}

// MinDecimal rejects decimals below minimum.
func MinDecimal(minimum decimal.Decimal) Validator[decimal.Decimal] {
	return func(value decimal.Decimal) error {
		if value.LessThan(minimum) {
			return fmt.Errorf("value %s is below minimum %s", value, minimum)
		}
		return nil
	}
}

// MaxDecimal rejects decimals above maximum.
func MaxDecimal(maximum decimal.Decimal) Validator[decimal.Decimal] {
	return func(value decimal.Decimal) error {
		if value.GreaterThan(maximum) {
			return fmt.Errorf("value %s exceeds maximum %s", value, maximum)
		}
		return nil
	}
}

// Clamp fits values into [minimum, maximum] instead of rejecting them.
// It panics if maximum is less than minimum.
func Clamp[T cmp.Ordered](minimum, maximum T) Transform[T] {
	if maximum < minimum {
		panic("configmgmt: the min value cannot be greater than the max value")
	}
	return func(value T) (T, error) {
		return min(max(value, minimum), maximum), nil
	}
}

// ClampDecimal is Clamp for fixed-point decimals.
func ClampDecimal(minimum, maximum decimal.Decimal) Transform[decimal.Decimal] {
	if maximum.LessThan(minimum) {
		panic("configmgmt: the min value cannot be greater than the max value")
	}
	return func(value decimal.Decimal) (decimal.Decimal, error) {
		if value.LessThan(minimum) {
			return minimum, nil
		}
		if value.GreaterThan(maximum) {
			return maximum, nil
		}
		return value, nil
	}
}
