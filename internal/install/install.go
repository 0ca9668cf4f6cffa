// Package install extracts the rules archive into a project.
//
// The archive carries two subtrees, which are installed under the chosen
// destinations:
//
//	aidlc-rules/aws-aidlc-rules/...         -> <rulesDest>/aws-aidlc-rules/...
//	aidlc-rules/aws-aidlc-rule-details/...  -> <detailsDest>/aws-aidlc-rule-details/...
//
// Anything else in the archive is ignored.
package install

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
)

const (
	// RulesSourcePrefix is the archive folder holding the core rules.
	RulesSourcePrefix = "aidlc-rules/aws-aidlc-rules/"
	// DetailsSourcePrefix is the archive folder holding the rule details.
	DetailsSourcePrefix = "aidlc-rules/aws-aidlc-rule-details/"

	// RulesSubtree is the folder created under the rules destination.
	RulesSubtree = "aws-aidlc-rules"
	// DetailsSubtree is the folder created under the details destination.
	DetailsSubtree = "aws-aidlc-rule-details"
)

// Kind classifies an extraction failure.
type Kind int

const (
	// KindArchive means the archive could not be opened or is malformed.
	KindArchive Kind = iota + 1
	// KindFilesystem means an entry could not be written.
	KindFilesystem
)

// Error is returned by Install.
type Error struct {
	Kind  Kind
	Entry string
	Err   error
}

func (e *Error) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("extract: %v", e.Err)
	}
	return fmt.Sprintf("extract %s: %v", e.Entry, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Installer writes archive entries into a project filesystem.
type Installer struct {
	FS     billy.Filesystem
	Logger *slog.Logger
}

// New returns an Installer writing into fs, which is rooted at the project.
func New(fs billy.Filesystem) *Installer {
	return &Installer{FS: fs, Logger: slog.Default()}
}

// Install extracts the known subtrees of the archive at archivePath and
// returns the written paths in archive order. Existing files are
// overwritten. A failure leaves whatever was already written in place.
func (i *Installer) Install(archivePath, rulesDest, detailsDest string) ([]string, error) {
	zr, err := zip.OpenReader(archivePath)
	// Non-local names are rejected per entry below, whatever zipinsecurepath says.
	if err != nil && (zr == nil || !errors.Is(err, zip.ErrInsecurePath)) {
		return nil, &Error{Kind: KindArchive, Err: fmt.Errorf("open zip file: %w", err)}
	}
	defer zr.Close()

	roots := []struct {
		prefix string
		dest   string
	}{
		{RulesSourcePrefix, i.FS.Join(rulesDest, RulesSubtree)},
		{DetailsSourcePrefix, i.FS.Join(detailsDest, DetailsSubtree)},
	}

	var installed []string
	for _, f := range zr.File {
		for _, root := range roots {
			rel, ok := strings.CutPrefix(f.Name, root.prefix)
			if !ok {
				continue
			}
			if rel == "" || f.FileInfo().IsDir() || strings.HasSuffix(rel, "/") {
				break
			}

			dest, err := i.destination(root.dest, rel)
			if err != nil {
				return installed, &Error{Kind: KindArchive, Entry: f.Name, Err: err}
			}
			if err := i.writeEntry(f, dest); err != nil {
				return installed, err
			}
			installed = append(installed, dest)
			break
		}
	}

	i.logger().Debug("archive extracted",
		slog.String("archive", archivePath),
		slog.Int("files", len(installed)),
	)

	return installed, nil
}

// destination joins rel under root, rejecting names that would escape it.
func (i *Installer) destination(root, rel string) (string, error) {
	clean := path.Clean(rel)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("illegal file path: %s", rel)
	}
	return i.FS.Join(root, clean), nil
}

func (i *Installer) writeEntry(f *zip.File, dest string) error {
	if err := i.FS.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return &Error{Kind: KindFilesystem, Entry: f.Name, Err: fmt.Errorf("create parent dir: %w", err)}
	}

	rc, err := f.Open()
	if err != nil {
		return &Error{Kind: KindArchive, Entry: f.Name, Err: err}
	}
	defer rc.Close()

	out, err := i.FS.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return &Error{Kind: KindFilesystem, Entry: f.Name, Err: fmt.Errorf("create file: %w", err)}
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		kind := KindFilesystem
		if errors.Is(err, zip.ErrChecksum) || errors.Is(err, zip.ErrFormat) || errors.Is(err, zip.ErrAlgorithm) {
			kind = KindArchive
		}
		return &Error{Kind: kind, Entry: f.Name, Err: fmt.Errorf("write file: %w", err)}
	}

	if err := out.Close(); err != nil {
		return &Error{Kind: KindFilesystem, Entry: f.Name, Err: fmt.Errorf("close file: %w", err)}
	}

	return nil
}

// AlreadyInstalled reports whether either destination subtree exists.
func (i *Installer) AlreadyInstalled(rulesDest, detailsDest string) bool {
	for _, p := range []string{
		i.FS.Join(rulesDest, RulesSubtree),
		i.FS.Join(detailsDest, DetailsSubtree),
	} {
		if _, err := i.FS.Stat(p); err == nil {
			return true
		}
	}
	return false
}

func (i *Installer) logger() *slog.Logger {
	if i.Logger == nil {
		return slog.Default()
	}
	return i.Logger
}
