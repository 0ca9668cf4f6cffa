package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/config"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/release"
)

func TestIsUsageError(t *testing.T) {
	t.Parallel()

	assert.True(t, isUsageError(errors.New("unknown flag: --nope")))
	assert.True(t, isUsageError(errors.New(`invalid argument --rules-folder: path traversal not allowed: ../x`)))
	assert.False(t, isUsageError(errors.New("unexpected status code: 500")))
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	parseErr := fmt.Errorf("load: %w", &config.ParseError{
		Message: "Lua syntax error",
		Detail:  "line 1: boom\nstack traceback:\n\t[G]: ?",
	})
	assert.Equal(t, "Lua syntax error: line 1: boom", describe(parseErr))

	untrusted := fmt.Errorf("locate: %w", &release.Error{
		Kind: release.KindUntrustedOrigin,
		URL:  "https://evil.example.com/rules.zip",
		Err:  release.ErrUntrustedOrigin,
	})
	assert.Contains(t, describe(untrusted), "SECURITY")
	assert.Contains(t, describe(untrusted), "https://evil.example.com/rules.zip")

	assert.Equal(t, "plain", describe(errors.New("plain")))
}
