package configmgmt

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxSnapshotSize is the maximum allowed snapshot size (100MB).
const MaxSnapshotSize = 100 * 1024 * 1024

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = "1.0"

// Snapshot errors.
var (
	// ErrSnapshotTooLarge is returned when a snapshot exceeds MaxSnapshotSize.
	ErrSnapshotTooLarge = errors.New("configmgmt: snapshot exceeds 100MB size limit")

	// ErrNilSnapshot is returned when WriteSnapshot receives a nil snapshot.
	ErrNilSnapshot = errors.New("configmgmt: snapshot is nil")
)

// ConfigSnapshot is a point-in-time capture of every resolved value.
type ConfigSnapshot struct {
	Version    string            `json:"version"`
	Timestamp  time.Time         `json:"timestamp"`
	Config     map[string]any    `json:"config"` // Secrets redacted
	Provenance []FieldProvenance `json:"provenance"`
}

// SnapshotOption configures snapshot creation behavior.
type SnapshotOption func(*snapshotConfig)

type snapshotConfig struct {
	excludeKeys []string
}

// WithExcludeKeys leaves the given keys out of the snapshot. Matching is case-insensitive.
func WithExcludeKeys(keys ...string) SnapshotOption {
	return func(cfg *snapshotConfig) {
		cfg.excludeKeys = append(cfg.excludeKeys, keys...)
	}
}

// Snapshot captures the current resolved value and provenance of every entity.
func (r *Registry) Snapshot(opts ...SnapshotOption) (*ConfigSnapshot, error) {
	if r == nil {
		return nil, ErrNilRegistry
	}

	snapCfg := &snapshotConfig{}
	for _, opt := range opts {
		opt(snapCfg)
	}

	excluded := make(map[string]bool, len(snapCfg.excludeKeys))
	for _, k := range snapCfg.excludeKeys {
		excluded[strings.ToLower(k)] = true
	}

	snap := &ConfigSnapshot{
		Version:    SnapshotVersion,
		Timestamp:  time.Now().UTC(),
		Config:     make(map[string]any, len(r.entities)),
		Provenance: make([]FieldProvenance, 0, len(r.entities)),
	}
	for _, e := range r.entities {
		if excluded[strings.ToLower(e.Key())] {
			continue
		}
		snap.Config[e.Key()] = flatValue(e)
		snap.Provenance = append(snap.Provenance, e.Provenance())
	}

	return snap, nil
}

// ExpandPathWithTime replaces every {{timestamp}} in template with t formatted as 20060102-150405.
func ExpandPathWithTime(template string, t time.Time) string {
	return strings.ReplaceAll(template, "{{timestamp}}", t.UTC().Format("20060102-150405"))
}

// WriteSnapshot persists a snapshot as indented JSON, atomically.
// The {{timestamp}} variable in pathTemplate expands to the snapshot's own timestamp.
func WriteSnapshot(snapshot *ConfigSnapshot, pathTemplate string) error {
	if snapshot == nil {
		return ErrNilSnapshot
	}

	targetPath := ExpandPathWithTime(pathTemplate, snapshot.Timestamp)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	if len(data) > MaxSnapshotSize {
		return ErrSnapshotTooLarge
	}

	if dir := filepath.Dir(targetPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	tempPath, err := tempFileName(targetPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	if err := os.Rename(tempPath, targetPath); err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	return nil
}

// tempFileName returns a sibling path of target so the final rename stays on one filesystem.
func tempFileName(target string) (string, error) {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	return target + ".tmp." + hex.EncodeToString(suffix), nil
}
