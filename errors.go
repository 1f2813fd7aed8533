package configmgmt

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for validation failures.
const (
	ErrCodeRequired = "required"
)

// ErrRequired matches, via errors.Is, any ValidationError reporting a missing required key.
var ErrRequired = errors.New("configmgmt: required key missing")

// ValidationError aggregates key-level validation failures.
type ValidationError struct {
	FieldErrors []FieldError
}

// Error formats validation errors as a multi-line message.
func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return "config validation failed: no errors"
	}

	var b strings.Builder
	if len(e.FieldErrors) == 1 {
		b.WriteString("config validation failed: 1 error\n")
	} else {
		fmt.Fprintf(&b, "config validation failed: %d errors\n", len(e.FieldErrors))
	}

	for _, fe := range e.FieldErrors {
		fmt.Fprintf(&b, "  - %s: %s (%s)\n", fe.Key, fe.Code, fe.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

// Unwrap exposes each field error to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.FieldErrors))
	for i := range e.FieldErrors {
		errs[i] = e.FieldErrors[i]
	}
	return errs
}

// Keys returns the offending keys in report order.
func (e *ValidationError) Keys() []string {
	keys := make([]string, len(e.FieldErrors))
	for i, fe := range e.FieldErrors {
		keys[i] = fe.Key
	}
	return keys
}

// FieldError represents a single key validation failure.
type FieldError struct {
	Key     string // Configuration key (e.g., "DATABASE_HOST")
	Code    string // Error code (e.g., "required")
	Message string // Human-readable description
}

func (fe FieldError) Error() string {
	return fmt.Sprintf("%s: %s", fe.Key, fe.Message)
}

func (fe FieldError) Unwrap() error {
	if fe.Code == ErrCodeRequired {
		return ErrRequired
	}
	return nil
}
