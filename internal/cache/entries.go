package cache

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Entry describes one cached version.
type Entry struct {
	Tag    string
	Size   int64  // archive size, 0 if the archive is missing
	Digest string // recorded digest, empty if none
}

// Entries lists cached versions, newest semantic version first. Tags that
// are not semantic versions sort after, in lexical order.
func (c *Cache) Entries() ([]Entry, error) {
	dirs, err := os.ReadDir(c.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &Error{Op: "list", Err: err}
	}

	var entries []Entry
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		e := Entry{Tag: d.Name()}
		if info, err := os.Stat(filepath.Join(c.Root, d.Name(), ArtifactName)); err == nil {
			e.Size = info.Size()
		}
		if digest, ok, err := c.ReadDigest(d.Name()); err == nil && ok {
			e.Digest = digest
		}
		entries = append(entries, e)
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return compareTags(a.Tag, b.Tag)
	})

	return entries, nil
}

func compareTags(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)

	switch {
	case errA == nil && errB == nil:
		return vb.Compare(va)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
