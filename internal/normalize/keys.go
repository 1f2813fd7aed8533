package normalize

import (
	"strings"
)

// segmentSeparators split hierarchical setting names (e.g., "/myapp/db:host").
const segmentSeparators = `/\:.,`

// ToLowerDotPath normalizes a configuration key to a lowercase dot-separated path.
// Double underscores (__) and colons (:) are treated as level separators.
// Single underscores within a level are preserved.
// Examples:
//   - "FOO__BAR" → "foo.bar"
//   - "Database:Host" → "database.host"
//   - "DB_MAX_CONNECTIONS" → "db_max_connections"
func ToLowerDotPath(key string) string {
	normalized := strings.ReplaceAll(key, "__", ".")
	normalized = strings.ReplaceAll(normalized, ":", ".")
	return strings.ToLower(strings.TrimSpace(normalized))
}

// LastSegment returns the part of a hierarchical name after its last separator.
// Examples:
//   - "/myapp/KEY_IN_VAULT" → "KEY_IN_VAULT"
//   - "app:db.host" → "host"
//   - "PLAIN" → "PLAIN"
func LastSegment(name string) string {
	if i := strings.LastIndexAny(name, segmentSeparators); i >= 0 {
		return name[i+1:]
	}
	return name
}

// JoinPath combines a prefix with a key to create a nested configuration path.
// Examples:
//   - JoinPath("database", "host") → "database.host"
//   - JoinPath("", "host") → "host"
func JoinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return prefix
	}
	return prefix + "." + key
}
