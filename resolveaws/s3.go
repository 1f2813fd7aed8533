package resolveaws

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const s3Scheme = "s3://"

// MaxObjectSize caps how much of an S3 object is read as a value (1MB).
const MaxObjectSize = 1 << 20

// S3API is the subset of the S3 client used for resolution.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Object resolves s3://bucket/key references into the object body.
// Trailing newlines are trimmed.
type S3Object struct {
	client S3API
	opts   Options
	logger zerolog.Logger
}

// NewS3Object creates a resolver backed by client.
func NewS3Object(client S3API, opts Options) *S3Object {
	opts = opts.withDefaults()
	return &S3Object{client: client, opts: opts, logger: opts.logger()}
}

// NewS3ObjectFromConfig creates a resolver with a client built from cfg.
func NewS3ObjectFromConfig(cfg aws.Config, opts Options) *S3Object {
	return NewS3Object(s3.NewFromConfig(cfg), opts)
}

// Resolve reads the object named by ref.
func (o *S3Object) Resolve(ref string) (string, error) {
	bucket, key, err := parseS3Ref(ref)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.opts.Timeout)
	defer cancel()

	start := time.Now()
	o.logger.Debug().Str("bucket", bucket).Str("key", key).Msg("getting object")
	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("get object s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, MaxObjectSize+1))
	if err != nil {
		return "", fmt.Errorf("read object s3://%s/%s: %w", bucket, key, err)
	}
	if len(data) > MaxObjectSize {
		return "", fmt.Errorf("object s3://%s/%s exceeds %d bytes", bucket, key, MaxObjectSize)
	}
	o.logger.Debug().Str("bucket", bucket).Str("key", key).Dur("elapsed", time.Since(start)).Msg("got object")

	return strings.TrimRight(string(data), "\r\n"), nil
}

// parseS3Ref splits s3://bucket/key.
func parseS3Ref(ref string) (bucket, key string, err error) {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(strings.ToLower(ref), s3Scheme) {
		return "", "", fmt.Errorf("%w: must start with %q", ErrNotReference, s3Scheme)
	}

	bucket, key, ok := strings.Cut(ref[len(s3Scheme):], "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: the URL format does not appear to be 's3://<bucket>/<key>'", ErrNotReference)
	}
	return bucket, key, nil
}
