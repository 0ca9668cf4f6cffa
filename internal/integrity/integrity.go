// Package integrity records digests of installed rule documents and
// reports documents changed since installation.
//
// The manifest is a sha256sum-style text file:
//
//	<64 hex chars>  <project-relative path>
//
// one line per document, sorted, newline terminated. Drift is advisory and
// never blocks an install.
package integrity

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/checksum"
)

const (
	// ManifestName is the manifest file written into the details destination.
	ManifestName = ".aidlc-integrity.sha256"
	// DocumentExt is the extension of recorded documents.
	DocumentExt = ".md"

	separator = "  "
)

// Drift describes one document whose content changed since sealing.
type Drift struct {
	Path     string
	Expected string
	Actual   string
}

// Ledger reads and writes manifests in a project filesystem.
type Ledger struct {
	FS     billy.Filesystem
	Logger *slog.Logger
}

// New returns a Ledger over fs, which is rooted at the project.
func New(fs billy.Filesystem) *Ledger {
	return &Ledger{FS: fs, Logger: slog.Default()}
}

// ManifestPath returns the manifest location for detailsDest.
func (l *Ledger) ManifestPath(detailsDest string) string {
	return l.FS.Join(detailsDest, ManifestName)
}

// Seal digests every installed document and writes the manifest.
// Paths without the document extension are skipped.
func (l *Ledger) Seal(installed []string, detailsDest string) error {
	lines := make([]string, 0, len(installed))
	for _, p := range installed {
		if filepath.Ext(p) != DocumentExt {
			continue
		}
		data, err := util.ReadFile(l.FS, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		lines = append(lines, checksum.Digest(data)+separator+p)
	}

	slices.Sort(lines)

	content := strings.Join(lines, "\n") + "\n"
	if err := util.WriteFile(l.FS, l.ManifestPath(detailsDest), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write integrity manifest: %w", err)
	}

	return nil
}

// Check returns the paths of recorded documents whose current content no
// longer matches, sorted. Without a manifest nothing is reported. Deleted
// documents and entries that cannot be read, such as paths outside the
// project, are not reported.
func (l *Ledger) Check(detailsDest string) ([]string, error) {
	drifts, err := l.Drifts(detailsDest)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(drifts))
	for _, d := range drifts {
		paths = append(paths, d.Path)
	}
	return paths, nil
}

// Drifts is Check with the recorded and current digests of each document.
func (l *Ledger) Drifts(detailsDest string) ([]Drift, error) {
	data, err := util.ReadFile(l.FS, l.ManifestPath(detailsDest))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read integrity manifest: %w", err)
	}

	expected := parseManifest(data)

	paths := make([]string, 0, len(expected))
	for p := range expected {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	var drifts []Drift
	for _, p := range paths {
		current, err := util.ReadFile(l.FS, p)
		if err != nil {
			if !os.IsNotExist(err) {
				l.logger().Debug("skipping unreadable manifest entry",
					slog.String("path", p),
					slog.Any("err", err),
				)
			}
			continue
		}
		if actual := checksum.Digest(current); actual != expected[p] {
			drifts = append(drifts, Drift{Path: p, Expected: expected[p], Actual: actual})
		}
	}

	return drifts, nil
}

// parseManifest maps path to digest. Lines without the separator are
// ignored; a repeated path keeps its last digest.
func parseManifest(data []byte) map[string]string {
	entries := make(map[string]string)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		hash, path, ok := strings.Cut(scanner.Text(), separator)
		if !ok || path == "" {
			continue
		}
		entries[path] = hash
	}

	return entries
}

func (l *Ledger) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}
