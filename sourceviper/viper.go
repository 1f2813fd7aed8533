package sourceviper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	configmgmt "github.com/plasne/config-mgmt"
	"github.com/plasne/config-mgmt/internal/normalize"
)

type viperSource struct {
	v    *viper.Viper
	name string
}

// New wraps v. The caller owns reading configuration into v.
func New(v *viper.Viper) configmgmt.Source {
	return &viperSource{v: v, name: "viper"}
}

// FromFile reads path with viper, inferring the format from its extension.
// A missing file yields a source that misses every key.
func FromFile(path string) (configmgmt.Source, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return &viperSource{v: v, name: "viper:" + filepath.Base(path)}, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return &viperSource{v: v, name: "viper:" + filepath.Base(path)}, nil
}

// Lookup returns the value at key, with arrays comma-joined.
func (s *viperSource) Lookup(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", configmgmt.ErrEmptyKey
	}

	path := normalize.ToLowerDotPath(key)
	if !s.v.IsSet(path) {
		return "", fmt.Errorf("%s %s: %w", s.name, key, configmgmt.ErrNotFound)
	}

	var value string
	switch s.v.Get(path).(type) {
	case []any, []string:
		value = strings.Join(s.v.GetStringSlice(path), ",")
	case map[string]any:
		return "", fmt.Errorf("%s %s is a section: %w", s.name, key, configmgmt.ErrNotFound)
	case nil:
		value = ""
	default:
		value = s.v.GetString(path)
	}

	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%s %s: %w", s.name, key, configmgmt.ErrNotFound)
	}
	return value, nil
}

// Name implements configmgmt.Source.
func (s *viperSource) Name() string {
	return s.name
}
