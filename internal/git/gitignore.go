package git

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// IgnoreFile is the ignore file name at the project root.
const IgnoreFile = ".gitignore"

// AddIgnore appends entry to the ignore file at path unless an equivalent
// line is already present. Lines are compared with surrounding whitespace
// and trailing slashes removed, so "target" and "target/" are the same
// entry. The file is created when missing. It reports whether the file
// changed.
func AddIgnore(fs billy.Filesystem, path, entry string) (bool, error) {
	content, err := util.ReadFile(fs, path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	if HasIgnore(string(content), entry) {
		return false, nil
	}

	var b strings.Builder
	b.Write(content)
	if len(content) > 0 && content[len(content)-1] != '\n' {
		b.WriteByte('\n')
	}
	b.WriteString(entry)
	b.WriteByte('\n')

	if err := util.WriteFile(fs, path, []byte(b.String()), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}

	return true, nil
}

// HasIgnore reports whether content already lists entry.
func HasIgnore(content, entry string) bool {
	want := normalize(entry)
	for _, line := range strings.Split(content, "\n") {
		if normalize(line) == want {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "/")
}
