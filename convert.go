package configmgmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// errNoValue is returned by built-in converters for candidates that carry nothing usable.
var errNoValue = errors.New("configmgmt: no value")

// Extended boolean vocabulary, matched case-insensitively.
var (
	truthy = []string{"true", "t", "yes", "y", "1", "active", "enabled", "activated"}
	falsy  = []string{"false", "f", "no", "n", "0", "inactive", "disabled", "deactivated"}
)

// ParseString accepts any non-blank string unchanged.
func ParseString(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errNoValue
	}
	return raw, nil
}

// ParseInteger parses a base-10 integer, ignoring surrounding whitespace.
func ParseInteger(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

// ParseDecimal parses a fixed-point decimal number.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

// ParseBoolean matches raw against the truthy and falsy vocabularies.
func ParseBoolean(raw string) (bool, error) {
	s := strings.TrimSpace(raw)
	for _, t := range truthy {
		if strings.EqualFold(s, t) {
			return true, nil
		}
	}
	for _, f := range falsy {
		if strings.EqualFold(s, f) {
			return false, nil
		}
	}
	return false, fmt.Errorf("configmgmt: %q is not a boolean", raw)
}

// ParseStrings splits raw on commas, trims each element and drops empty ones.
// A candidate with no remaining elements carries no value.
func ParseStrings(raw string) ([]string, error) {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		values = append(values, p)
	}
	if len(values) == 0 {
		return nil, errNoValue
	}
	return values, nil
}

// EnumConverter returns a converter matching raw case-insensitively against the
// String() names of symbols.
func EnumConverter[E fmt.Stringer](symbols ...E) Converter[E] {
	return func(raw string) (E, error) {
		s := strings.TrimSpace(raw)
		for _, sym := range symbols {
			if strings.EqualFold(sym.String(), s) {
				return sym, nil
			}
		}
		var zero E
		return zero, fmt.Errorf("configmgmt: %q is not a known symbol", raw)
	}
}

func formatStrings(values []string) string {
	return strings.Join(values, ", ")
}

func formatDecimal(d decimal.Decimal) string {
	return d.String()
}

func formatStringer[E fmt.Stringer](v E) string {
	return v.String()
}
