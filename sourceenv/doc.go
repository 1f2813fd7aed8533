// Package sourceenv reads configuration values from environment variables.
//
// Lookups try the key as given, then its hierarchical form: "Database:Host" → "DATABASE__HOST".
//
// Example:
//
//	_ = sourceenv.LoadDotEnv() // optional .env file
//	reg := configmgmt.NewRegistry().WithSource(sourceenv.New(sourceenv.Options{Prefix: "APP_"}))
package sourceenv
