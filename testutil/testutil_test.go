package testutil

import (
	"path/filepath"
	"testing"
)

func TestWriteAndReadFile(t *testing.T) {
	dir := t.TempDir()
	path := WriteFile(t, dir, "notes/a.md", []byte("# A"))
	if path != filepath.Join(dir, "notes", "a.md") {
		t.Errorf("unexpected path %q", path)
	}
	if got := ReadFile(t, path); got != "# A" {
		t.Errorf("unexpected contents %q", got)
	}
}

func TestLogBufferEntries(t *testing.T) {
	log, buf := NewLogger("test")
	log.Debug("first")
	log.Info("second")

	entries := buf.Entries(t)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	e, ok := buf.Find(t, "second")
	if !ok || e["level"] != "info" {
		t.Errorf("expected info entry, got %v", e)
	}
	if _, ok := buf.Find(t, "missing"); ok {
		t.Error("unexpected match")
	}
}
