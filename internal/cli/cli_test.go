package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/cache"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/checksum"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/cli"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/integrity"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// sealedProject lays out an installed .kiro/steering project with a
// manifest covering one detail document.
func sealedProject(t *testing.T) (dir, doc string) {
	t.Helper()

	dir = t.TempDir()
	doc = ".kiro/aws-aidlc-rule-details/common/x.md"
	writeFile(t, filepath.Join(dir, ".kiro/steering/aws-aidlc-rules/core-workflow.md"), "# Core Workflow")
	writeFile(t, filepath.Join(dir, doc), "# X")

	require.NoError(t, integrity.New(osfs.New(dir)).Seal([]string{doc}, ".kiro"))
	return dir, doc
}

func TestBindEnvVars(t *testing.T) {
	tcs := map[string]struct {
		envVars       map[string]string
		wantLogLevel  string
		wantLogFormat string
		args          []string
	}{
		"environment variables are bound when no args provided": {
			envVars: map[string]string{
				"AIDLC_LOG_LEVEL":  "debug",
				"AIDLC_LOG_FORMAT": "json",
			},
			args:          []string{},
			wantLogLevel:  "debug",
			wantLogFormat: "json",
		},
		"command line args take precedence over environment variables": {
			envVars: map[string]string{
				"AIDLC_LOG_LEVEL":  "debug",
				"AIDLC_LOG_FORMAT": "json",
			},
			args:          []string{"--log-level", "error", "--log-format", "text"},
			wantLogLevel:  "error",
			wantLogFormat: "text",
		},
		"no environment variables uses defaults": {
			envVars:       map[string]string{},
			args:          []string{},
			wantLogLevel:  "warn",
			wantLogFormat: "text",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			for key, val := range tc.envVars {
				t.Setenv(key, val)
			}

			cmd := cli.NewRootCmd()
			cmd.SetArgs(tc.args)

			err := cmd.ParseFlags(tc.args)
			require.NoError(t, err)

			logLevel, err := cmd.Flags().GetString("log-level")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogLevel, logLevel)

			logFormat, err := cmd.Flags().GetString("log-format")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogFormat, logFormat)
		})
	}
}

func TestEnvironmentVariableUsageUpdate(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCmd()

	projectFlag := cmd.PersistentFlags().Lookup("project-dir")
	require.NotNil(t, projectFlag)
	assert.Contains(t, projectFlag.Usage, "$AIDLC_PROJECT_DIR")

	yesFlag := cmd.Flags().Lookup("yes")
	require.NotNil(t, yesFlag)
	assert.Contains(t, yesFlag.Usage, "$AIDLC_YES")
}

func TestVerify(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		dir, _ := sealedProject(t)

		out, err := execute(t, "verify", "-C", dir)
		require.NoError(t, err)
		assert.Contains(t, out, ".kiro/steering: no modified rule documents")
	})

	t.Run("modified", func(t *testing.T) {
		dir, doc := sealedProject(t)
		writeFile(t, filepath.Join(dir, doc), "# Edited")

		out, err := execute(t, "verify", "-C", dir)
		require.ErrorIs(t, err, cli.ErrDrift)
		assert.Contains(t, out, doc)
		assert.Contains(t, out, checksum.Digest([]byte("# X"))[:12])
	})

	t.Run("explicit folder without manifest", func(t *testing.T) {
		out, err := execute(t, "verify", "-C", t.TempDir(), "--rules-folder", ".cursor/rules")
		require.NoError(t, err)
		assert.Contains(t, out, "No integrity manifest")
	})

	t.Run("nothing installed", func(t *testing.T) {
		out, err := execute(t, "verify", "-C", t.TempDir())
		require.NoError(t, err)
		assert.Contains(t, out, "No AI-DLC installation found")
	})

	t.Run("folder from project config", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "aidlc.lua"), `aidlc = { rules_folder = "custom/rules" }`)

		out, err := execute(t, "verify", "-C", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "No integrity manifest at custom/.aidlc-integrity.sha256")
	})

	t.Run("invalid folder", func(t *testing.T) {
		_, err := execute(t, "verify", "-C", t.TempDir(), "--rules-folder", "../up")
		require.Error(t, err)
	})
}

func TestCacheCommands(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	c := cache.New(root)

	writeFile(t, c.ArtifactPath("v1.2.0"), "archive")
	require.NoError(t, c.StoreDigest("v1.2.0", checksum.Digest([]byte("archive"))))
	writeFile(t, c.ArtifactPath("v1.1.0"), "older")

	out, err := execute(t, "cache", "list", "--cache-dir", root)
	require.NoError(t, err)
	assert.Contains(t, out, "v1.2.0")
	assert.Contains(t, out, "v1.1.0")
	assert.Contains(t, out, checksum.Digest([]byte("archive"))[:12])
	assert.Contains(t, out, "unrecorded")

	out, err = execute(t, "cache", "dir", "--cache-dir", root)
	require.NoError(t, err)
	assert.Equal(t, root+"\n", out)

	_, err = execute(t, "cache", "clean", "--cache-dir", root)
	require.NoError(t, err)
	assert.NoDirExists(t, root)

	out, err = execute(t, "cache", "list", "--cache-dir", root)
	require.NoError(t, err)
	assert.Contains(t, out, "No cached releases")
}

func TestCacheDirDefault(t *testing.T) {
	cacheHome := testutil.SetupTestEnv(t)

	out, err := execute(t, "cache", "dir")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cacheHome, cache.DirName)+"\n", out)
}

func TestInstallDeclinesOverwriteWithoutNetwork(t *testing.T) {
	dir, _ := sealedProject(t)

	out, err := execute(t, "install", "-C", dir, "--yes", "--no-banner",
		"--rules-folder", ".kiro/steering", "--cache-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped. No changes made.")
}

func TestInstallReportsDriftBeforeSkipping(t *testing.T) {
	dir, doc := sealedProject(t)
	writeFile(t, filepath.Join(dir, doc), "# Edited")
	writeFile(t, filepath.Join(dir, "aidlc.lua"), `aidlc = { rules_folder = ".kiro/steering", overwrite = false }`)

	out, err := execute(t, "-C", dir, "--no-banner", "--cache-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Using settings from aidlc.lua")
	assert.Contains(t, out, "modified since installation")
	assert.Contains(t, out, doc)
	assert.Contains(t, out, "Skipped.")
}

func TestInstallArgumentErrors(t *testing.T) {
	tests := map[string]struct {
		files map[string]string
		args  []string
	}{
		"unknown commit workflow": {
			args: []string{"--commit-workflow", "gitflow"},
		},
		"traversing rules folder": {
			args: []string{"--rules-folder", "../elsewhere"},
		},
		"invalid project config": {
			files: map[string]string{"aidlc.lua": `aidlc = {`},
		},
		"project config with bad workflow": {
			files: map[string]string{"aidlc.lua": `aidlc = { commit_workflow = "sometimes" }`},
		},
		"unknown log level": {
			args: []string{"--log-level", "loud"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			for p, content := range tc.files {
				writeFile(t, filepath.Join(dir, p), content)
			}

			args := append([]string{"install", "-C", dir, "--yes", "--no-banner", "--cache-dir", t.TempDir()}, tc.args...)
			_, err := execute(t, args...)
			require.Error(t, err)
		})
	}
}

func TestProjectDirMustExist(t *testing.T) {
	_, err := execute(t, "verify", "-C", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
