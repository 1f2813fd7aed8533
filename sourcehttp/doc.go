// Package sourcehttp reads configuration values from a remote key-value settings service.
//
// All settings matching the key filter and label are fetched once, on first lookup,
// following "@nextLink" paging. Lookups match the full setting key case-insensitively,
// then fall back to the last segment of hierarchical keys ("/myapp/db/HOST" matches "HOST").
// Values shaped like {"uri": "..."} (secret references) are unwrapped to the uri.
//
// Wire format of GET {endpoint}/kv?key={filter}&label={label}:
//
//	{"items": [{"key": "/myapp/HOST", "label": "dev", "value": "db.local"}], "@nextLink": "/kv?after=..."}
package sourcehttp
