package resolveaws

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/rs/zerolog"
)

const secretsManagerARNPrefix = "arn:aws:secretsmanager:"

// SecretsManagerAPI is the subset of the Secrets Manager client used for resolution.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManager resolves Secrets Manager ARNs into secret strings.
type SecretsManager struct {
	client SecretsManagerAPI
	opts   Options
	logger zerolog.Logger
}

// NewSecretsManager creates a resolver backed by client.
func NewSecretsManager(client SecretsManagerAPI, opts Options) *SecretsManager {
	opts = opts.withDefaults()
	return &SecretsManager{client: client, opts: opts, logger: opts.logger()}
}

// NewSecretsManagerFromConfig creates a resolver with a client built from cfg.
func NewSecretsManagerFromConfig(cfg aws.Config, opts Options) *SecretsManager {
	return NewSecretsManager(secretsmanager.NewFromConfig(cfg), opts)
}

// Resolve fetches the secret named by ref.
func (s *SecretsManager) Resolve(ref string) (string, error) {
	secretID, field, err := parseSecretRef(ref)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
	defer cancel()

	start := time.Now()
	s.logger.Debug().Str("secret", secretID).Msg("getting secret")
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return "", fmt.Errorf("get secret %s: %w", secretID, err)
	}
	s.logger.Debug().Str("secret", secretID).Dur("elapsed", time.Since(start)).Msg("got secret")

	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretID)
	}
	if field == "" {
		return *out.SecretString, nil
	}
	return selectField(secretID, *out.SecretString, field)
}

// parseSecretRef splits "<arn>#<field>" into the secret id and optional JSON field.
func parseSecretRef(ref string) (secretID, field string, err error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", "", fmt.Errorf("%w: the reference is empty", ErrNotReference)
	}
	if !strings.HasPrefix(ref, secretsManagerARNPrefix) {
		return "", "", fmt.Errorf("%w: must start with %q", ErrNotReference, secretsManagerARNPrefix)
	}
	if !strings.Contains(ref, ":secret:") {
		return "", "", fmt.Errorf("%w: must contain ':secret:'", ErrNotReference)
	}

	secretID, field, _ = strings.Cut(ref, "#")
	if strings.HasSuffix(secretID, ":secret:") {
		return "", "", fmt.Errorf("%w: the secret name is empty", ErrNotReference)
	}
	return secretID, field, nil
}

func selectField(secretID, secret, field string) (string, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(secret), &fields); err != nil {
		return "", fmt.Errorf("secret %s is not a JSON object: %w", secretID, err)
	}
	value, ok := fields[field]
	if !ok || value == nil {
		return "", fmt.Errorf("secret %s has no field %q", secretID, field)
	}
	if s, ok := value.(string); ok {
		return s, nil
	}
	return fmt.Sprint(value), nil
}
