package configmgmt

import (
	"errors"
)

// Source provides raw configuration strings from a backend (env vars, files, remote stores).
type Source interface {
	// Lookup returns the raw value stored under key.
	// Missing keys return an error wrapping ErrNotFound, blank keys return ErrEmptyKey.
	Lookup(key string) (string, error)

	// Name identifies the source in provenance and dumps (e.g., "env", "file:config.yaml").
	Name() string
}

// Lookup errors shared by all sources.
var (
	// ErrNotFound is returned when a source holds no value for a key.
	ErrNotFound = errors.New("configmgmt: key not found")

	// ErrEmptyKey is returned when a source is queried with a blank key.
	ErrEmptyKey = errors.New("configmgmt: key is empty")
)

// SourceFunc is a function adapter for the Source interface.
type SourceFunc func(key string) (string, error)

// Lookup calls f(key).
func (f SourceFunc) Lookup(key string) (string, error) {
	return f(key)
}

// Name implements Source.
func (f SourceFunc) Name() string {
	return "func"
}

// Resolver maps an already typed value to another value of the same type,
// e.g. dereferencing a secret reference into the secret itself.
type Resolver[T any] interface {
	Resolve(value T) (T, error)
}

// ResolverFunc is a function adapter for the Resolver interface.
type ResolverFunc[T any] func(value T) (T, error)

func (f ResolverFunc[T]) Resolve(value T) (T, error) {
	return f(value)
}

// Converter turns a raw candidate into a typed value.
type Converter[T any] func(raw string) (T, error)

// Validator accepts or rejects a converted value. A rejected value is removed.
type Validator[T any] func(value T) error

// Transform maps a value to a new value. A failing transform leaves the value unchanged.
type Transform[T any] func(value T) (T, error)

// Optional distinguishes "resolved from a candidate" from "fell back to the default".
type Optional[T any] struct {
	Value T
	Set   bool
}

// Get returns the wrapped value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// OrDefault returns the wrapped value or the provided default.
func (o Optional[T]) OrDefault(defaultVal T) T {
	if o.Set {
		return o.Value
	}
	return defaultVal
}
