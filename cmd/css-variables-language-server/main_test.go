package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIndexCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "theme.css"), ":root { --brand: red; --alias: var(--brand); --gap: 4px; }")
	writeFile(t, filepath.Join(dir, "media.scss"), "@custom-media --narrow (max-width: 30em);")
	writeFile(t, filepath.Join(dir, "node_modules", "lib.css"), ":root { --vendored: 1px; }")

	t.Run("variables", func(t *testing.T) {
		out, err := execute(t, "index", dir)
		require.NoError(t, err)

		assert.Regexp(t, `--alias\s+var\(--brand\)\s+#ff0000`, out)
		assert.Regexp(t, `--brand\s+red\s+#ff0000`, out)
		assert.Regexp(t, `--gap\s+4px\s+-`, out)
		assert.Contains(t, out, filepath.Join(dir, "theme.css"))
		assert.NotContains(t, out, "--vendored")
		assert.NotContains(t, out, "@custom-media")
		assert.Contains(t, out, "3 variables, 0 custom media, 2 files")
	})

	t.Run("custom media", func(t *testing.T) {
		out, err := execute(t, "index", "--custom-media", dir)
		require.NoError(t, err)
		assert.Regexp(t, `@custom-media --narrow\s+\(max-width: 30em\)`, out)
		assert.Contains(t, out, "3 variables, 1 custom media, 2 files")
	})

	t.Run("custom lookup globs", func(t *testing.T) {
		out, err := execute(t, "index", "--lookup", "**/*.scss", "--custom-media", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "0 variables, 1 custom media, 1 files")
	})

	t.Run("invalid globs", func(t *testing.T) {
		_, err := execute(t, "index", "--lookup", "[broken", dir)
		assert.Error(t, err)
	})
}

func TestIndexCommand_RequiresFolder(t *testing.T) {
	_, err := execute(t, "index")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}

func TestLogLevelFlag(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "version")
	assert.ErrorContains(t, err, "unknown log level")
}
