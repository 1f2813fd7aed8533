package sourceenv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	configmgmt "github.com/plasne/config-mgmt"
)

// Options configures environment variable source behavior.
type Options struct {
	// Prefix is prepended to every looked-up name (e.g., "APP_" turns PORT into APP_PORT).
	Prefix string

	// Environ fixes the environment as KEY=VALUE pairs instead of reading the process.
	// Nil reads the live process environment on every lookup.
	Environ []string
}

type envSource struct {
	opts  Options
	fixed map[string]string
}

// New creates an environment variable source.
func New(opts Options) configmgmt.Source {
	s := &envSource{opts: opts}
	if opts.Environ != nil {
		s.fixed = env.ToMap(opts.Environ)
	}
	return s
}

// Lookup returns the first non-blank variable among the candidate names for key.
func (e *envSource) Lookup(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", configmgmt.ErrEmptyKey
	}

	for _, name := range e.names(key) {
		if value, ok := e.get(name); ok && strings.TrimSpace(value) != "" {
			return value, nil
		}
	}
	return "", fmt.Errorf("env %s: %w", e.opts.Prefix+key, configmgmt.ErrNotFound)
}

// Name implements configmgmt.Source.
func (e *envSource) Name() string {
	return "env"
}

// names returns the variable names tried for key, most specific first.
func (e *envSource) names(key string) []string {
	names := []string{e.opts.Prefix + key}
	hierarchical := strings.NewReplacer(":", "__", ".", "__").Replace(strings.ToUpper(key))
	if hierarchical != key {
		names = append(names, e.opts.Prefix+hierarchical)
	}
	return names
}

func (e *envSource) get(name string) (string, bool) {
	if e.fixed != nil {
		value, ok := e.fixed[name]
		return value, ok
	}
	return os.LookupEnv(name)
}

// LoadDotEnv loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are skipped.
// With no paths it loads ".env".
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	}
	return nil
}
