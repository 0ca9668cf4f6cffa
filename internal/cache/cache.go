// Package cache stores downloaded release archives keyed by tag, together
// with the digest recorded when each archive was first fetched.
//
// Layout:
//
//	<root>/<tag>/aidlc-rules.zip
//	<root>/<tag>/sha256
//
// At most one tag is kept after Prune.
package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const (
	// DirName is the tool-specific subdirectory of the user cache home.
	DirName = "aidlc-workflows-helper"
	// ArtifactName is the file name of a cached archive.
	ArtifactName = "aidlc-rules.zip"
	// DigestName is the file name of the digest sidecar.
	DigestName = "sha256"
)

// Error is a filesystem failure inside the cache.
type Error struct {
	Op  string
	Tag string
	Err error
}

func (e *Error) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("cache %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Tag, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Cache is rooted at a directory resolved once by the caller.
type Cache struct {
	Root   string
	Logger *slog.Logger
}

// DefaultRoot returns the platform cache directory for this tool.
func DefaultRoot() (string, error) {
	if xdg.CacheHome == "" {
		return "", errors.New("could not determine cache directory")
	}
	return filepath.Join(xdg.CacheHome, DirName), nil
}

// New returns a Cache rooted at root.
func New(root string) *Cache {
	return &Cache{Root: root, Logger: slog.Default()}
}

// Dir returns the directory holding tag's files.
func (c *Cache) Dir(tag string) string {
	return filepath.Join(c.Root, tag)
}

// ArtifactPath returns where tag's archive lives.
func (c *Cache) ArtifactPath(tag string) string {
	return filepath.Join(c.Root, tag, ArtifactName)
}

// DigestPath returns where tag's digest sidecar lives.
func (c *Cache) DigestPath(tag string) string {
	return filepath.Join(c.Root, tag, DigestName)
}

// Has reports whether an archive is cached for tag.
func (c *Cache) Has(tag string) bool {
	_, err := os.Stat(c.ArtifactPath(tag))
	return err == nil
}

// StoreDigest records the digest of tag's archive.
func (c *Cache) StoreDigest(tag, hex string) error {
	path := c.DigestPath(tag)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &Error{Op: "store digest", Tag: tag, Err: err}
	}
	if err := os.WriteFile(path, []byte(hex), 0o644); err != nil {
		return &Error{Op: "store digest", Tag: tag, Err: err}
	}
	return nil
}

// ReadDigest returns the recorded digest for tag. The boolean is false when
// no digest was ever recorded.
func (c *Cache) ReadDigest(tag string) (string, bool, error) {
	data, err := os.ReadFile(c.DigestPath(tag))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, &Error{Op: "read digest", Tag: tag, Err: err}
	}
	return strings.TrimSpace(string(data)), true, nil
}

// Discard removes everything cached for tag.
func (c *Cache) Discard(tag string) error {
	if err := os.RemoveAll(c.Dir(tag)); err != nil {
		return &Error{Op: "discard", Tag: tag, Err: err}
	}
	return nil
}

// Prune deletes every cached version except keepTag. Removal failures are
// logged and otherwise ignored; a leftover version only wastes disk.
func (c *Cache) Prune(keepTag string) error {
	entries, err := os.ReadDir(c.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &Error{Op: "prune", Err: err}
	}

	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == keepTag {
			continue
		}
		dir := filepath.Join(c.Root, entry.Name())
		if err := os.RemoveAll(dir); err != nil {
			c.logger().Debug("could not remove old cached version",
				slog.String("dir", dir),
				slog.Any("err", err),
			)
		}
	}

	return nil
}

// Purge removes the whole cache root.
func (c *Cache) Purge() error {
	if err := os.RemoveAll(c.Root); err != nil {
		return &Error{Op: "purge", Err: err}
	}
	return nil
}

func (c *Cache) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
