package lsp

import (
	"testing"

	"bennypowers.dev/cssvls/lsp/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	s, _ := newTestServer(t, nil)

	require.NoError(t, s.LoadConfig())
	assert.Equal(t, types.DefaultConfig(), s.GetConfig())
}

func TestLoadConfig_Layering(t *testing.T) {
	s, _ := newTestServer(t, map[string]string{
		"package.json": `{
  "cssVariables": {
    "lookupFiles": ["from-package/**/*.css"],
    "blacklistFolders": ["**/vendor"],
    "networkTimeout": 5
  }
}`,
		".cssvariables.yaml": `lookupFiles:
  - from-yaml/**/*.css
enableCustomMedia: true
`,
	})

	require.NoError(t, s.LoadConfig())
	config := s.GetConfig()
	assert.Equal(t, []string{"from-yaml/**/*.css"}, config.LookupFiles, "yaml overrides package.json")
	assert.Equal(t, []string{"**/vendor"}, config.BlacklistFolders, "package.json fills what yaml leaves out")
	assert.True(t, config.EnableCustomMedia)
	assert.InDelta(t, 5, config.NetworkTimeout, 0)

	t.Run("client settings win", func(t *testing.T) {
		require.NoError(t, s.SetClientSettings(map[string]any{
			"cssVariables": map[string]any{
				"enableCustomMedia": false,
				"lookupFiles":       []string{"from-client/*.css"},
			},
		}))
		require.NoError(t, s.LoadConfig())

		config := s.GetConfig()
		assert.Equal(t, []string{"from-client/*.css"}, config.LookupFiles)
		assert.False(t, config.EnableCustomMedia)
		assert.Equal(t, []string{"**/vendor"}, config.BlacklistFolders)
	})
}

func TestLoadConfig_YMLExtension(t *testing.T) {
	s, _ := newTestServer(t, map[string]string{
		".cssvariables.yml": "enableCustomMedia: true\n",
	})

	require.NoError(t, s.LoadConfig())
	assert.True(t, s.GetConfig().EnableCustomMedia)
}

func TestLoadConfig_BrokenSources(t *testing.T) {
	s, _ := newTestServer(t, map[string]string{
		"package.json":       `{"cssVariables": `,
		".cssvariables.yaml": "enableCustomMedia: [",
	})
	require.NoError(t, s.SetClientSettings(map[string]any{"enableCustomMedia": true}))

	err := s.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package.json")
	assert.Contains(t, err.Error(), ".cssvariables.yaml")
	assert.True(t, s.GetConfig().EnableCustomMedia, "working sources still apply")
}

func TestLoadConfig_InvalidGlobs(t *testing.T) {
	s, _ := newTestServer(t, nil)
	require.NoError(t, s.SetClientSettings(map[string]any{
		"cssVariables": map[string]any{
			"lookupFiles":       []string{"[broken"},
			"enableCustomMedia": true,
		},
	}))

	err := s.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[broken")

	config := s.GetConfig()
	assert.Equal(t, types.DefaultConfig().LookupFiles, config.LookupFiles)
	assert.True(t, config.EnableCustomMedia)
}

func TestLoadConfig_NoRoot(t *testing.T) {
	s, fs := newTestServer(t, nil)
	s.SetRootPath("")
	require.NoError(t, afero.WriteFile(fs, ".cssvariables.yaml", []byte("enableCustomMedia: true\n"), 0o644))

	require.NoError(t, s.LoadConfig())
	assert.False(t, s.GetConfig().EnableCustomMedia)
}

func TestParseClientSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings any
		check    func(t *testing.T, p types.ConfigPatch)
		wantErr  bool
	}{
		{
			name:     "nil",
			settings: nil,
			check: func(t *testing.T, p types.ConfigPatch) {
				assert.True(t, p.IsEmpty())
			},
		},
		{
			name:     "namespaced",
			settings: map[string]any{"cssVariables": map[string]any{"networkTimeout": 2.5}},
			check: func(t *testing.T, p types.ConfigPatch) {
				require.NotNil(t, p.NetworkTimeout)
				assert.InDelta(t, 2.5, *p.NetworkTimeout, 0)
			},
		},
		{
			name:     "flat",
			settings: map[string]any{"blacklistFolders": []any{"**/out"}},
			check: func(t *testing.T, p types.ConfigPatch) {
				require.NotNil(t, p.BlacklistFolders)
				assert.Equal(t, []string{"**/out"}, *p.BlacklistFolders)
			},
		},
		{
			name:     "other servers' settings are ignored",
			settings: map[string]any{"css": map[string]any{"validate": true}},
			check: func(t *testing.T, p types.ConfigPatch) {
				assert.True(t, p.IsEmpty())
			},
		},
		{
			name:     "not an object",
			settings: []string{"a"},
			wantErr:  true,
		},
		{
			name:     "wrong field type",
			settings: map[string]any{"cssVariables": map[string]any{"lookupFiles": "*.css"}},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch, err := parseClientSettings(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, patch)
		})
	}
}
