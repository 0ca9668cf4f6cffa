package testutil_test

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/testutil"
)

func TestSetupTestEnv(t *testing.T) {
	cacheHome := testutil.SetupTestEnv(t)

	assert.Equal(t, cacheHome, os.Getenv("XDG_CACHE_HOME"))
	assert.Equal(t, cacheHome, xdg.CacheHome)
	assert.DirExists(t, cacheHome)
}

func TestWriteZipPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b.zip")
	testutil.WriteZip(t, path,
		testutil.ZipEntry{Name: "z.txt", Body: "last letter"},
		testutil.ZipEntry{Name: "dir/"},
		testutil.ZipEntry{Name: "a.txt", Body: "first letter"},
	)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	require.Len(t, zr.File, 3)
	assert.Equal(t, "z.txt", zr.File[0].Name)
	assert.True(t, zr.File[1].FileInfo().IsDir())

	rc, err := zr.File[2].Open()
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "first letter", string(body))
}
