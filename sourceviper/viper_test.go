package sourceviper

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configmgmt "github.com/plasne/config-mgmt"
)

func newViper(t *testing.T, format, content string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType(format)
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(content)))
	return v
}

func TestViperSource_Lookup(t *testing.T) {
	v := newViper(t, "json", `{
  "STRING_EXAMPLE": "hello",
  "Database": {"Host": "db.local", "Port": 5432},
  "Hosts": ["a", "b", "c"],
  "Empty": ""
}`)
	src := New(v)

	tests := []struct {
		key      string
		expected string
	}{
		{"STRING_EXAMPLE", "hello"},
		{"string_example", "hello"},
		{"Database:Host", "db.local"},
		{"DATABASE__PORT", "5432"},
		{"database.host", "db.local"},
		{"hosts", "a,b,c"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := src.Lookup(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := src.Lookup("missing")
	assert.ErrorIs(t, err, configmgmt.ErrNotFound)

	_, err = src.Lookup("empty")
	assert.ErrorIs(t, err, configmgmt.ErrNotFound)

	_, err = src.Lookup("database")
	assert.ErrorIs(t, err, configmgmt.ErrNotFound, "sections are not values")

	_, err = src.Lookup("  ")
	assert.ErrorIs(t, err, configmgmt.ErrEmptyKey)

	assert.Equal(t, "viper", src.Name())
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appsettings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: demo\n"), 0644))

	src, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "viper:appsettings.yaml", src.Name())

	got, err := src.Lookup("App:Name")
	require.NoError(t, err)
	assert.Equal(t, "demo", got)
}

func TestFromFile_Missing(t *testing.T) {
	src, err := FromFile(filepath.Join(t.TempDir(), "appsettings.json"))
	require.NoError(t, err)

	_, err = src.Lookup("anything")
	assert.ErrorIs(t, err, configmgmt.ErrNotFound)
}

func TestFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appsettings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"broken":`), 0644))

	_, err := FromFile(path)
	assert.Error(t, err)
}
