package configmgmt

// originDefault is the provenance recorded when no candidate survived.
const originDefault = "default"

// FieldProvenance describes where an entity's resolved value came from.
type FieldProvenance struct {
	Key        string `json:"key"`    // Configuration key (e.g., "DATABASE_HOST")
	SourceName string `json:"source"` // Winning source (e.g., "env", "literal", "default")
	Secret     bool   `json:"secret"` // Whether the value is redacted in output
}

// Provenance returns the origin of every entity's resolved value, in creation order.
func (r *Registry) Provenance() []FieldProvenance {
	fields := make([]FieldProvenance, 0, len(r.entities))
	for _, e := range r.entities {
		fields = append(fields, e.Provenance())
	}
	return fields
}
