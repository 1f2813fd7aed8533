package sourcefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	configmgmt "github.com/plasne/config-mgmt"
	"github.com/plasne/config-mgmt/internal/normalize"
)

// Options configures file source behavior.
type Options struct {
	// Format: "yaml", "json", or "toml". Auto-detected from extension if empty.
	Format string

	// Required: if true, a missing file is an error. Default: false (every lookup misses).
	Required bool
}

// File is a configuration file source. The file is read once, on first use.
type File struct {
	path string
	opts Options

	once    sync.Once
	values  map[string]any
	loadErr error
}

// New creates a file-based configuration source.
func New(path string, opts Options) *File {
	return &File{
		path: path,
		opts: opts,
	}
}

// Lookup returns the value at key, rendered as a string.
func (f *File) Lookup(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", configmgmt.ErrEmptyKey
	}

	values, err := f.Load()
	if err != nil {
		return "", err
	}

	value, ok := values[normalize.ToLowerDotPath(key)]
	if !ok || value == nil {
		return "", fmt.Errorf("%s %s: %w", f.Name(), key, configmgmt.ErrNotFound)
	}

	s := stringify(value)
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%s %s: %w", f.Name(), key, configmgmt.ErrNotFound)
	}
	return s, nil
}

// Name returns a human-readable identifier for this source.
func (f *File) Name() string {
	return "file:" + filepath.Base(f.path)
}

// Load reads and parses the file once, returning flattened lowercase keys.
func (f *File) Load() (map[string]any, error) {
	f.once.Do(func() {
		f.values, f.loadErr = f.read()
	})
	return f.values, f.loadErr
}

func (f *File) read() (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			if f.opts.Required {
				return nil, fmt.Errorf("required config file not found: %s: %w", f.path, err)
			}
			return make(map[string]any), nil
		}
		return nil, fmt.Errorf("read config file %s: %w", f.path, err)
	}

	format := f.opts.Format
	if format == "" {
		format = inferFormat(f.path)
	}

	var raw map[string]any
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML file %s: %w", f.path, err)
		}
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse JSON file %s: %w", f.path, err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse TOML file %s: %w", f.path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: yaml, json, toml)", format)
	}

	flattened := make(map[string]any)
	flatten("", raw, flattened)
	return flattened, nil
}

// flatten recursively flattens nested maps to lowercase dot-separated keys.
func flatten(prefix string, value any, result map[string]any) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			flatten(normalize.JoinPath(prefix, strings.ToLower(key)), val, result)
		}
	case map[any]any:
		for key, val := range v {
			keyStr, ok := key.(string)
			if !ok {
				continue
			}
			flatten(normalize.JoinPath(prefix, strings.ToLower(keyStr)), val, result)
		}
	default:
		if prefix != "" {
			result[prefix] = value
		}
	}
}

// stringify renders scalars with fmt and arrays as comma-joined elements.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

func inferFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}
