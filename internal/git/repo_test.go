package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("not a repository", func(t *testing.T) {
		ok, err := IsRepo(ctx, t.TempDir())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("repository root", func(t *testing.T) {
		dir := t.TempDir()
		_, err := gogit.PlainInit(dir, false)
		require.NoError(t, err)

		ok, err := IsRepo(ctx, dir)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("subdirectory", func(t *testing.T) {
		dir := t.TempDir()
		_, err := gogit.PlainInit(dir, false)
		require.NoError(t, err)
		sub := filepath.Join(dir, "services", "api")
		require.NoError(t, os.MkdirAll(sub, 0o755))

		ok, err := IsRepo(ctx, sub)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := IsRepo(cctx, t.TempDir())
		assert.Error(t, err)
	})
}
