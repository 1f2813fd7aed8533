package configmgmt

import (
	"encoding/json"
	"fmt"
	"io"
)

// redacted replaces secret values in dumps and snapshots.
const redacted = "***redacted***"

// Placeholders shown instead of secret values by Fields.
const (
	SecretSet    = "(set)"
	SecretNotSet = "(not set)"
)

// Field is a display-ready view of one entity.
type Field struct {
	Key      string
	Value    string // Formatted value, or SecretSet / SecretNotSet for secrets
	Source   string
	Required bool
	Secret   bool
}

// Fields describes every entity in creation order, for loggers and printers.
func (r *Registry) Fields() []Field {
	fields := make([]Field, 0, len(r.entities))
	for _, e := range r.entities {
		prov := e.Provenance()
		f := Field{
			Key:      e.Key(),
			Source:   prov.SourceName,
			Required: e.IsRequired(),
			Secret:   e.IsSecret(),
		}
		switch {
		case !f.Secret:
			f.Value = e.display()
		case prov.SourceName != originDefault:
			f.Value = SecretSet
		default:
			f.Value = SecretNotSet
		}
		fields = append(fields, f)
	}
	return fields
}

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for Dump.
type dumpConfig struct {
	withSources bool   // Include source attribution for each key
	asJSON      bool   // Output as JSON instead of text format
	indent      string // Indentation for JSON output (default: "  ")
}

// WithSources includes source attribution for each key in the output.
func WithSources() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withSources = true
	}
}

// AsJSON outputs configuration as JSON instead of text format.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// Dump writes every entity's resolved value, in creation order.
// Secret values are written as "***redacted***".
func (r *Registry) Dump(w io.Writer, opts ...DumpOption) error {
	if r == nil {
		return ErrNilRegistry
	}

	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	if config.asJSON {
		return r.dumpAsJSON(w, config)
	}
	return r.dumpAsText(w, config)
}

// dumpAsText outputs one "key: value" line per entity.
func (r *Registry) dumpAsText(w io.Writer, config dumpConfig) error {
	for _, e := range r.entities {
		value := fmt.Sprintf("%q", e.display())
		if e.IsSecret() {
			value = redacted
		}

		line := fmt.Sprintf("%s: %s", e.Key(), value)
		if config.withSources {
			line += fmt.Sprintf(" (source: %s)", e.Provenance().SourceName)
		}
		line += "\n"

		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}
	return nil
}

// dumpAsJSON outputs a key to value object, or key to {value, source} with WithSources.
func (r *Registry) dumpAsJSON(w io.Writer, config dumpConfig) error {
	result := make(map[string]any, len(r.entities))
	for _, e := range r.entities {
		value := flatValue(e)
		if config.withSources {
			result[e.Key()] = map[string]any{
				"value":  value,
				"source": e.Provenance().SourceName,
			}
			continue
		}
		result[e.Key()] = value
	}

	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(result, "", config.indent)
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// flatValue returns the entity value for structured output, redacting secrets.
// Stringer values (enums) are written by name.
func flatValue(e Entry) any {
	if e.IsSecret() {
		return redacted
	}
	value := e.resolvedValue()
	if s, ok := value.(fmt.Stringer); ok {
		return s.String()
	}
	return value
}
