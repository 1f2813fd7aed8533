package resolveaws

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single resolution.
const DefaultTimeout = 10 * time.Second

// ErrNotReference is returned for values that are not references this resolver handles.
var ErrNotReference = errors.New("resolveaws: value is not a supported reference")

// Options configures a resolver.
type Options struct {
	// Timeout bounds each AWS call. Default: DefaultTimeout.
	Timeout time.Duration

	// Logger receives debug timing lines. Nil disables logging.
	Logger *zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}

// LoadConfig loads the default AWS credential chain, pinned to region when set.
func LoadConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}
