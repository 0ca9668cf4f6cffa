package git

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddIgnore(t *testing.T) {
	tests := []struct {
		name     string
		existing *string
		entry    string
		want     string
		changed  bool
	}{
		{name: "new file", entry: "target/", want: "target/\n", changed: true},
		{name: "append", existing: ptr("node_modules\n"), entry: "target/", want: "node_modules\ntarget/\n", changed: true},
		{name: "missing final newline", existing: ptr("node_modules"), entry: "target/", want: "node_modules\ntarget/\n", changed: true},
		{name: "empty file", existing: ptr(""), entry: "aidlc-docs/audit.md", want: "aidlc-docs/audit.md\n", changed: true},
		{name: "duplicate", existing: ptr("target/\n"), entry: "target/", want: "target/\n"},
		{name: "present without slash", existing: ptr("target\n"), entry: "target/", want: "target\n"},
		{name: "present with slash", existing: ptr("target/\n"), entry: "target", want: "target/\n"},
		{name: "surrounding whitespace", existing: ptr("  .kiro/steering  \n"), entry: ".kiro/steering", want: "  .kiro/steering  \n"},
		{name: "prefix is not a match", existing: ptr("aidlc-docs/audit.md\n"), entry: "aidlc-docs/", want: "aidlc-docs/audit.md\naidlc-docs/\n", changed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memfs.New()
			if tt.existing != nil {
				require.NoError(t, util.WriteFile(fs, IgnoreFile, []byte(*tt.existing), 0o644))
			}

			changed, err := AddIgnore(fs, IgnoreFile, tt.entry)
			require.NoError(t, err)
			assert.Equal(t, tt.changed, changed)

			got, err := util.ReadFile(fs, IgnoreFile)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestAddIgnoreIsIdempotent(t *testing.T) {
	fs := memfs.New()

	for range 3 {
		_, err := AddIgnore(fs, IgnoreFile, "aidlc-docs/")
		require.NoError(t, err)
	}

	got, err := util.ReadFile(fs, IgnoreFile)
	require.NoError(t, err)
	assert.Equal(t, "aidlc-docs/\n", string(got))
}

func ptr(s string) *string { return &s }
