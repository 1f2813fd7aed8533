package configmgmt

import (
	"fmt"
)

// originLiteral is the provenance recorded for candidates added with Set.
const originLiteral = "literal"

// candidate is a raw string contributed by a source or a literal, not yet converted.
type candidate struct {
	raw    string
	origin string
}

// resolution is the cached outcome of the pipeline.
type resolution[T any] struct {
	value  T
	set    bool
	origin string
}

// Entity resolves a single configuration key to a value of type T.
//
// Entities are created by a Registry (AsString, AsInteger, ...). Configuration calls
// return the entity for chaining and mark the cached value stale; Value recomputes
// lazily. An Entity is not safe for concurrent use.
type Entity[T any] struct {
	key      string
	registry *Registry

	candidates []candidate
	builtin    Converter[T]
	converter  Converter[T]
	validators []Validator[T]
	transforms []Transform[T]
	dflt       T
	required   bool
	secret     bool
	format     func(T) string

	dirty  bool
	cached resolution[T]
}

func newEntity[T any](r *Registry, key string, builtin Converter[T], format func(T) string) *Entity[T] {
	if r == nil {
		panic("configmgmt: entity must be created from a Registry")
	}
	if key == "" {
		panic("configmgmt: entity key must not be empty")
	}
	if format == nil {
		format = func(v T) string { return fmt.Sprint(v) }
	}
	e := &Entity[T]{
		key:      key,
		registry: r,
		builtin:  builtin,
		format:   format,
		dirty:    true,
	}
	r.entities = append(r.entities, e)
	return e
}

// mustBeRegistered fails fast on entities that bypassed the Registry constructors.
func (e *Entity[T]) mustBeRegistered() {
	if e.registry == nil {
		panic("configmgmt: entity must be created from a Registry")
	}
}

// Key returns the configuration key the entity was created for.
func (e *Entity[T]) Key() string {
	e.mustBeRegistered()
	return e.key
}

// Fetch queries every registry source, in order, for the entity key.
// Every successful lookup adds a candidate. Misses are ignored.
func (e *Entity[T]) Fetch() *Entity[T] {
	e.mustBeRegistered()
	return e.fetch(e.registry.sources, e.key)
}

// FetchKey queries every registry source for key instead of the entity key.
func (e *Entity[T]) FetchKey(key string) *Entity[T] {
	e.mustBeRegistered()
	return e.fetch(e.registry.sources, key)
}

// FetchFrom queries the given sources, in order, for the entity key.
func (e *Entity[T]) FetchFrom(sources ...Source) *Entity[T] {
	e.mustBeRegistered()
	return e.fetch(sources, e.key)
}

func (e *Entity[T]) fetch(sources []Source, key string) *Entity[T] {
	for _, src := range sources {
		if src == nil {
			continue
		}
		raw, err := src.Lookup(key)
		if err != nil {
			continue
		}
		e.candidates = append(e.candidates, candidate{raw: raw, origin: src.Name()})
		e.dirty = true
	}
	return e
}

// Set appends a literal raw candidate after any candidates already collected.
func (e *Entity[T]) Set(raw string) *Entity[T] {
	e.mustBeRegistered()
	e.candidates = append(e.candidates, candidate{raw: raw, origin: originLiteral})
	e.dirty = true
	return e
}

// WithDefault sets the value returned when no candidate survives the pipeline.
// Combining a default with Require is a configuration smell: the default hides nothing
// from Validate, which only checks whether a candidate was collected.
func (e *Entity[T]) WithDefault(value T) *Entity[T] {
	e.mustBeRegistered()
	e.dflt = value
	e.dirty = true
	return e
}

// WithConverter replaces the built-in string conversion for T.
func (e *Entity[T]) WithConverter(fn Converter[T]) *Entity[T] {
	e.mustBeRegistered()
	e.converter = fn
	e.dirty = true
	return e
}

// WithValidator adds a predicate. A value survives only if every validator accepts it.
func (e *Entity[T]) WithValidator(fn Validator[T]) *Entity[T] {
	e.mustBeRegistered()
	if fn == nil {
		return e
	}
	e.validators = append(e.validators, fn)
	e.dirty = true
	return e
}

// WithTransform adds a best-effort mapping applied to every surviving value.
func (e *Entity[T]) WithTransform(fn Transform[T]) *Entity[T] {
	e.mustBeRegistered()
	if fn == nil {
		return e
	}
	e.transforms = append(e.transforms, fn)
	e.dirty = true
	return e
}

// WithResolver adds a secondary resolver as a transform.
// When resolution fails the value is kept as supplied.
func (e *Entity[T]) WithResolver(r Resolver[T]) *Entity[T] {
	if r == nil {
		e.mustBeRegistered()
		return e
	}
	return e.WithTransform(r.Resolve)
}

// Require marks the entity as required. Registry.Validate reports it when no
// source or literal produced a candidate.
func (e *Entity[T]) Require() *Entity[T] {
	e.mustBeRegistered()
	e.required = true
	return e
}

// Secret marks the value as sensitive. Dumps, snapshots and logs redact it.
func (e *Entity[T]) Secret() *Entity[T] {
	e.mustBeRegistered()
	e.secret = true
	return e
}

// HasValue reports whether at least one raw candidate was collected,
// whether or not it survives conversion and validation.
func (e *Entity[T]) HasValue() bool {
	e.mustBeRegistered()
	return len(e.candidates) > 0
}

// IsRequired reports whether Require was called.
func (e *Entity[T]) IsRequired() bool {
	e.mustBeRegistered()
	return e.required
}

// IsSecret reports whether Secret was called.
func (e *Entity[T]) IsSecret() bool {
	e.mustBeRegistered()
	return e.secret
}

// Value returns the resolved value, recomputing it if the entity changed since the last read.
func (e *Entity[T]) Value() T {
	return e.resolve().value
}

// Optional returns the resolved value and whether it came from a candidate rather than the default.
func (e *Entity[T]) Optional() Optional[T] {
	res := e.resolve()
	return Optional[T]{Value: res.value, Set: res.set}
}

// Provenance describes where the resolved value came from.
func (e *Entity[T]) Provenance() FieldProvenance {
	res := e.resolve()
	prov := FieldProvenance{
		Key:    e.key,
		Secret: e.secret,
	}
	if res.set {
		prov.SourceName = res.origin
	} else {
		prov.SourceName = originDefault
	}
	return prov
}

// resolve runs convert, validate, transform and select when the cache is stale.
func (e *Entity[T]) resolve() resolution[T] {
	e.mustBeRegistered()
	if !e.dirty {
		return e.cached
	}

	res := resolution[T]{value: e.dflt}
	for _, c := range e.candidates {
		value, ok := e.convert(c.raw)
		if !ok || !e.valid(value) {
			continue
		}
		res = resolution[T]{
			value:  e.transform(value),
			set:    true,
			origin: c.origin,
		}
		break
	}

	e.cached = res
	e.dirty = false
	return res
}

func (e *Entity[T]) convert(raw string) (T, bool) {
	conv := e.converter
	if conv == nil {
		conv = e.builtin
	}
	if conv == nil {
		var zero T
		return zero, false
	}
	value, err := conv(raw)
	if err != nil {
		var zero T
		return zero, false
	}
	return value, true
}

func (e *Entity[T]) valid(value T) bool {
	for _, v := range e.validators {
		if err := v(value); err != nil {
			return false
		}
	}
	return true
}

func (e *Entity[T]) transform(value T) T {
	for _, t := range e.transforms {
		out, err := t(value)
		if err != nil {
			continue
		}
		value = out
	}
	return value
}

// display formats the resolved value for dumps and logs.
func (e *Entity[T]) display() string {
	return e.format(e.Value())
}

// resolvedValue returns the resolved value as an interface for JSON output.
func (e *Entity[T]) resolvedValue() any {
	return e.Value()
}
