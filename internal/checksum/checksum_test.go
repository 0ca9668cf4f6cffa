package checksum

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloWorldSHA256 = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.bin")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDigest(t *testing.T) {
	assert.Equal(t, helloWorldSHA256, Digest([]byte("hello world")))
	assert.Len(t, Digest(nil), HexLen)
}

func TestDigestReader(t *testing.T) {
	got, err := DigestReader(strings.NewReader("hello world"))
	require.NoError(t, err)
	assert.Equal(t, helloWorldSHA256, got)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		expected   string
		wantErr    bool
		wantExists bool
	}{
		{
			name:       "matching_digest",
			content:    "hello world",
			expected:   helloWorldSHA256,
			wantExists: true,
		},
		{
			name:     "zero_digest",
			content:  "hello world",
			expected: strings.Repeat("0", HexLen),
			wantErr:  true,
		},
		{
			name:     "uppercase_is_not_equal",
			content:  "hello world",
			expected: strings.ToUpper(helloWorldSHA256),
			wantErr:  true,
		},
		{
			name:     "empty_expected",
			content:  "hello world",
			expected: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.content)

			err := Verify(path, tt.expected)

			_, statErr := os.Stat(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMismatch)

				var mismatch *MismatchError
				require.True(t, errors.As(err, &mismatch))
				assert.Equal(t, tt.expected, mismatch.Expected)
				assert.Equal(t, helloWorldSHA256, mismatch.Actual)
				assert.True(t, os.IsNotExist(statErr), "corrupted file should be deleted")
				return
			}

			require.NoError(t, err)
			assert.NoError(t, statErr)
		})
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	for _, content := range []string{"", "a", "# Core Workflow\n", strings.Repeat("x", 1<<16)} {
		path := writeFile(t, content)
		assert.NoError(t, Verify(path, Digest([]byte(content))))
	}
}

func TestVerifyMissingFile(t *testing.T) {
	err := Verify(filepath.Join(t.TempDir(), "missing"), helloWorldSHA256)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMismatch)
}

func TestValidHex(t *testing.T) {
	assert.True(t, ValidHex(helloWorldSHA256))
	assert.False(t, ValidHex("abc"))
	assert.False(t, ValidHex(strings.ToUpper(helloWorldSHA256)))
	assert.False(t, ValidHex(""))
}

func TestWriter(t *testing.T) {
	w := NewWriter()
	_, err := w.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = w.Write([]byte("world"))
	require.NoError(t, err)

	assert.Equal(t, helloWorldSHA256, w.Sum())
}
