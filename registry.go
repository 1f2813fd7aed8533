package configmgmt

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNilRegistry is returned by helpers that receive a nil *Registry.
var ErrNilRegistry = errors.New("configmgmt: registry is nil")

// Entry is the type-erased view of an entity held by a Registry.
// Only entities created by this package implement it.
type Entry interface {
	Key() string
	HasValue() bool
	IsRequired() bool
	IsSecret() bool
	Provenance() FieldProvenance

	display() string
	resolvedValue() any
}

// Registry creates entities and checks that required ones received a value.
// Sources are queried in the order they were added; the first candidate that
// survives an entity's pipeline wins.
// A Registry is not safe for concurrent use.
type Registry struct {
	sources  []Source
	entities []Entry
	strict   bool // Stop at the first missing required key
}

// NewRegistry creates a Registry with no sources.
func NewRegistry() *Registry {
	return &Registry{
		sources:  make([]Source, 0),
		entities: make([]Entry, 0),
	}
}

// WithSource adds a source. Earlier sources take precedence over later ones.
func (r *Registry) WithSource(src Source) *Registry {
	if src != nil {
		r.sources = append(r.sources, src)
	}
	return r
}

// Strict controls whether Validate stops at the first missing required key. Default: false.
func (r *Registry) Strict(strict bool) *Registry {
	r.strict = strict
	return r
}

// Sources returns the registered sources in precedence order.
func (r *Registry) Sources() []Source {
	out := make([]Source, len(r.sources))
	copy(out, r.sources)
	return out
}

// Entries returns every entity created by the registry, in creation order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entities))
	copy(out, r.entities)
	return out
}

// AsString creates a string entity. Blank candidates are dropped.
func (r *Registry) AsString(key string) *Entity[string] {
	return newEntity[string](r, key, ParseString, nil)
}

// AsInteger creates an integer entity.
func (r *Registry) AsInteger(key string) *Entity[int] {
	return newEntity[int](r, key, ParseInteger, nil)
}

// AsDecimal creates a fixed-point decimal entity.
func (r *Registry) AsDecimal(key string) *Entity[decimal.Decimal] {
	return newEntity[decimal.Decimal](r, key, ParseDecimal, formatDecimal)
}

// AsBoolean creates a boolean entity using the extended yes/no vocabulary.
func (r *Registry) AsBoolean(key string) *Entity[bool] {
	return newEntity[bool](r, key, ParseBoolean, nil)
}

// AsStrings creates a comma-delimited string list entity.
func (r *Registry) AsStrings(key string) *Entity[[]string] {
	return newEntity[[]string](r, key, ParseStrings, formatStrings)
}

// AsEnum creates an entity whose candidates must name one of symbols (case-insensitive).
func AsEnum[E fmt.Stringer](r *Registry, key string, symbols ...E) *Entity[E] {
	return newEntity[E](r, key, EnumConverter(symbols...), formatStringer[E])
}

// As creates an entity for any type using conv as its built-in converter.
func As[T any](r *Registry, key string, conv Converter[T]) *Entity[T] {
	return newEntity[T](r, key, conv, nil)
}

// Validate reports every required entity for which no candidate was collected.
// It re-checks current state on every call. In strict mode only the first
// missing key is reported.
func (r *Registry) Validate() error {
	var fieldErrors []FieldError

	for _, e := range r.entities {
		if !e.IsRequired() || e.HasValue() {
			continue
		}
		fieldErrors = append(fieldErrors, FieldError{
			Key:     e.Key(),
			Code:    ErrCodeRequired,
			Message: fmt.Sprintf("configuration key '%s' is required, but missing", e.Key()),
		})
		if r.strict {
			break
		}
	}

	if len(fieldErrors) > 0 {
		return &ValidationError{FieldErrors: fieldErrors}
	}
	return nil
}
