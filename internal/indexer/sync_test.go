package indexer_test

import (
	"context"
	"path/filepath"
	"testing"

	"bennypowers.dev/cssvls/internal/fetch"
	"bennypowers.dev/cssvls/internal/indexer"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
}

func TestParseAndSyncVariables(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/ws/src/tokens.css":               ":root { --brand: #000; }",
		"/ws/src/button.scss":              ".b { --button-bg: var(--brand); }",
		"/ws/src/theme.less":               ":root { --less-gap: 4px; }",
		"/ws/src/old.sass":                 ":root { --sass-gap: 4px; }",
		"/ws/src/readme.md":                "--not-css: 1px;",
		"/ws/node_modules/lib/lib.css":     ":root { --vendored: 1px; }",
		"/ws/dist/out.css":                 ":root { --built: 1px; }",
		"/ws/src/tests/fixture.css":        ":root { --fixture: 1px; }",
		"/ws/.git/objects/x.css":           ":root { --git: 1px; }",
		"/other/root.css":                  ":root { --other-root: 1px; }",
		"/ws/src/deep/nested/dir/deep.css": ":root { --deep: 1px; }",
	})

	e := indexer.New(indexer.WithFs(fs), indexer.WithFetcher(fetch.FetcherFunc(func(context.Context, string) (string, error) {
		return "", errOffline
	})))

	report, err := e.ParseAndSyncVariables(context.Background(), []string{"/ws", "/other"}, indexer.DefaultSettings())
	require.NoError(t, err)
	assert.NoError(t, report.Errors)

	all := e.GetAll()
	assert.ElementsMatch(t, []string{
		"--brand",
		"--button-bg",
		"--less-gap",
		"--sass-gap",
		"--other-root",
		"--deep",
	}, keys(all))

	assert.Equal(t, 6, report.Files)
	assert.Equal(t, 6, report.Variables)
	assert.Zero(t, report.CustomMedia)

	require.NotNil(t, all["--button-bg"].Color, "sync ends with a resolution pass")
}

func TestSyncCustomLookupFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/ws/index.html":    "<style>:root { --html: 1px; }</style>",
		"/ws/app.ts":        "const s = css`:host { --ts: 1px; }`;",
		"/ws/ignored.css":   ":root { --css: 1px; }",
		"/ws/vendor/x.ts":   "const s = css`:host { --vendor: 1px; }`;",
		"/ws/media.css":     "@custom-media --wide (min-width: 60em);",
		"/ws/.DS_Store":     "",
		"/ws/sub/.DS_Store": "",
	})

	settings := indexer.Settings{
		LookupFiles:       []string{"**/*.html", "**/*.ts", "media.css", "**/.DS_Store"},
		BlacklistFolders:  []string{"**/vendor", "**/.DS_Store"},
		EnableCustomMedia: true,
	}

	e := indexer.New(indexer.WithFs(fs))
	report, err := e.ParseAndSyncVariables(context.Background(), []string{"/ws"}, settings)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"--html", "--ts"}, keys(e.GetAll()))
	assert.Equal(t, 3, report.Files)
	assert.Equal(t, 1, report.CustomMedia)
}

func TestSyncInvalidSettings(t *testing.T) {
	e := indexer.New(indexer.WithFs(afero.NewMemMapFs()))
	_, err := e.ParseAndSyncVariables(context.Background(), []string{"/ws"}, indexer.Settings{
		LookupFiles: []string{"[unclosed"},
	})
	assert.Error(t, err)
}

func TestSyncMissingFolder(t *testing.T) {
	e := indexer.New(indexer.WithFs(afero.NewMemMapFs()))
	report, err := e.ParseAndSyncVariables(context.Background(), []string{"/nowhere"}, indexer.DefaultSettings())
	require.NoError(t, err)
	assert.Error(t, report.Errors, "walk failures are reported, not fatal")
	assert.Zero(t, report.Files)
}

func TestSyncCanceled(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/ws/a.css": ":root { --a: 1px; }"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := indexer.New(indexer.WithFs(fs))
	_, err := e.ParseAndSyncVariables(ctx, []string{"/ws"}, indexer.DefaultSettings())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSyncReportsImportFailures(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/ws/a.css": `@import "https://down.example/x.css"; :root { --a: 1px; }`,
		"/ws/b.css": `:root { --b: 1px; }`,
	})

	e := indexer.New(indexer.WithFs(fs), indexer.WithFetcher(fetch.FetcherFunc(func(context.Context, string) (string, error) {
		return "", errOffline
	})))
	report, err := e.ParseAndSyncVariables(context.Background(), []string{"/ws"}, indexer.DefaultSettings())
	require.NoError(t, err)

	assert.ErrorIs(t, report.Errors, errOffline)
	assert.ElementsMatch(t, []string{"--a", "--b"}, keys(e.GetAll()))
}

func TestIndexFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{"/ws/a.css": ":root { --a: 1px; }"})

	e := indexer.New(indexer.WithFs(fs))
	require.NoError(t, e.IndexFile(context.Background(), "/ws/a.css", indexer.DefaultSettings()))
	assert.Contains(t, e.GetAll(), "--a")

	assert.Error(t, e.IndexFile(context.Background(), "/ws/missing.css", indexer.DefaultSettings()))
}

func TestSettingsMatches(t *testing.T) {
	s := indexer.DefaultSettings()
	tests := []struct {
		rel  string
		want bool
	}{
		{"a.css", true},
		{"src/a.scss", true},
		{"src/a.less", true},
		{"src/a.sass", true},
		{"src/a.html", false},
		{"node_modules/pkg/a.css", false},
		{"src/node_modules/pkg/a.css", false},
		{"tmp/a.css", false},
		{"src/tmpl/a.css", true},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Matches(tt.rel))
		})
	}
}
