// Package sourcefile reads configuration values from YAML, JSON, or TOML files.
//
// Format is auto-detected from extension (.yaml, .json, .toml). Nested sections are
// flattened to dot paths, so "Database:Host", "DATABASE__HOST" and "database.host"
// all find the same value. Arrays are returned comma-joined.
//
// Example:
//
//	src := sourcefile.New("appsettings.json", sourcefile.Options{})
//	reg := configmgmt.NewRegistry().WithSource(src)
package sourcefile
