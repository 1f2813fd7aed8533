// Package resolveaws dereferences secret references held in configuration values.
//
// Supported references:
//
//	arn:aws:secretsmanager:<region>:<account>:secret:<name>          → secret string
//	arn:aws:secretsmanager:<region>:<account>:secret:<name>#<field>  → field of a JSON secret
//	s3://<bucket>/<key>                                               → object body
//
// Resolvers plug into an entity with WithResolver. A value that is not a reference,
// or cannot be resolved, is kept as supplied.
//
// Example:
//
//	awsCfg, err := resolveaws.LoadConfig(ctx, "us-east-1")
//	sm := resolveaws.NewSecretsManager(secretsmanager.NewFromConfig(awsCfg), resolveaws.Options{})
//	reg.AsString("DB_PASSWORD").Fetch().WithResolver(sm).Secret()
package resolveaws
