package configmgmt

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSnapshot(t *testing.T) {
	reg := newDumpRegistry()

	snap, err := reg.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	if snap.Version != SnapshotVersion {
		t.Errorf("Version = %q, want %q", snap.Version, SnapshotVersion)
	}
	if snap.Timestamp.IsZero() || snap.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp = %v, want non-zero UTC", snap.Timestamp)
	}
	if snap.Config["HOST"] != "localhost" {
		t.Errorf("HOST = %v", snap.Config["HOST"])
	}
	if snap.Config["PORT"] != 8080 {
		t.Errorf("PORT = %v", snap.Config["PORT"])
	}
	if snap.Config["PASSWORD"] != redacted {
		t.Errorf("PASSWORD = %v, want redacted", snap.Config["PASSWORD"])
	}
	if len(snap.Provenance) != 5 {
		t.Errorf("len(Provenance) = %d, want 5", len(snap.Provenance))
	}
}

func TestSnapshot_ExcludeKeys(t *testing.T) {
	snap, err := newDumpRegistry().Snapshot(WithExcludeKeys("host", "Password"))
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	if _, ok := snap.Config["HOST"]; ok {
		t.Error("HOST should be excluded")
	}
	if _, ok := snap.Config["PASSWORD"]; ok {
		t.Error("PASSWORD should be excluded")
	}
	if len(snap.Provenance) != 3 {
		t.Errorf("len(Provenance) = %d, want 3", len(snap.Provenance))
	}
}

func TestSnapshot_NilRegistry(t *testing.T) {
	var reg *Registry
	if _, err := reg.Snapshot(); !errors.Is(err, ErrNilRegistry) {
		t.Errorf("Snapshot on nil registry = %v, want ErrNilRegistry", err)
	}
}

func TestExpandPathWithTime(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		template string
		want     string
	}{
		{"config-{{timestamp}}.json", "config-20240305-143045.json"},
		{"{{timestamp}}/{{timestamp}}.json", "20240305-143045/20240305-143045.json"},
		{"static.json", "static.json"},
	}
	for _, tt := range tests {
		if got := ExpandPathWithTime(tt.template, ts); got != tt.want {
			t.Errorf("ExpandPathWithTime(%q) = %q, want %q", tt.template, got, tt.want)
		}
	}
}

func TestWriteSnapshot(t *testing.T) {
	dir := t.TempDir()
	snap, err := newDumpRegistry().Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	snap.Timestamp = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	template := filepath.Join(dir, "nested", "snap-{{timestamp}}.json")
	if err := WriteSnapshot(snap, template); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	path := filepath.Join(dir, "nested", "snap-20240102-030405.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}

	var decoded ConfigSnapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid snapshot JSON: %v", err)
	}
	if decoded.Config["PASSWORD"] != redacted {
		t.Errorf("PASSWORD = %v, want redacted", decoded.Config["PASSWORD"])
	}
	if strings.Contains(string(data), "secret123") {
		t.Error("secret leaked into snapshot file")
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "nested"))
	if len(entries) != 1 {
		t.Errorf("expected only the snapshot file, found %d entries", len(entries))
	}
}

func TestWriteSnapshot_Nil(t *testing.T) {
	if err := WriteSnapshot(nil, filepath.Join(t.TempDir(), "x.json")); !errors.Is(err, ErrNilSnapshot) {
		t.Errorf("WriteSnapshot(nil) = %v, want ErrNilSnapshot", err)
	}
}
