// Package testutil provides helpers for testing aidlc in isolation.
package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

// SetupTestEnv points the XDG base directories at a per-test temporary
// directory so tests never touch the user's real cache. It returns the
// cache home. The previous locations are restored when the test ends.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	// Cleanups run last-in first-out, so this reload sees the restored
	// variables.
	t.Cleanup(xdg.Reload)

	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpDir, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))

	for _, dir := range []string{"cache", "config", "data"} {
		if err := os.MkdirAll(filepath.Join(tmpDir, dir), 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	xdg.Reload()

	return filepath.Join(tmpDir, "cache")
}

// ZipEntry is one file (or directory marker, when Name ends in "/") of a
// test archive.
type ZipEntry struct {
	Name string
	Body string
}

// WriteZip writes entries, in order, to a new archive at path.
func WriteZip(t *testing.T, path string, entries ...ZipEntry) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create archive dir: %v", err)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			t.Fatalf("add %s: %v", e.Name, err)
		}
		if _, err := w.Write([]byte(e.Body)); err != nil {
			t.Fatalf("write %s: %v", e.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("finish archive: %v", err)
	}
}

// ZipBytes returns the archive WriteZip would produce for entries.
func ZipBytes(t *testing.T, entries ...ZipEntry) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "archive.zip")
	WriteZip(t, path, entries...)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	return data
}

// RulesArchive returns the two-document archive used across tests.
func RulesArchive() []ZipEntry {
	return []ZipEntry{
		{Name: "aidlc-rules/aws-aidlc-rules/core-workflow.md", Body: "# Core Workflow"},
		{Name: "aidlc-rules/aws-aidlc-rule-details/common/x.md", Body: "# X"},
	}
}
