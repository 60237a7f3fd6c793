package helpers_test

import (
	"testing"

	"bennypowers.dev/cssvls/lsp/helpers"
	"bennypowers.dev/cssvls/lsp/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const sheet = `@custom-media --narrow (max-width: 30em);
:root { --narrow: 1px; --gap: 4px; }
@media (--narrow) { a { margin: var(--narrow) var(--gap); } }
`

func TestTargetAt(t *testing.T) {
	tests := []struct {
		name        string
		customMedia bool
		pos         protocol.Position
		wantName    string
		wantMedia   bool
	}{
		{"variable in value", false, protocol.Position{Line: 2, Character: 53}, "--gap", false},
		{"media condition with custom media on", true, protocol.Position{Line: 2, Character: 10}, "--narrow", true},
		{"media condition with custom media off", false, protocol.Position{Line: 2, Character: 10}, "--narrow", false},
		{"same name outside the condition", true, protocol.Position{Line: 2, Character: 40}, "--narrow", false},
		{"declaration name", false, protocol.Position{Line: 1, Character: 26}, "--gap", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.NewMockServerContext()
			config := ctx.GetConfig()
			config.EnableCustomMedia = tt.customMedia
			ctx.SetConfig(config)
			doc := ctx.OpenDocument("file:///ws/a.css", "css", sheet)

			target := helpers.TargetAt(ctx, doc, tt.pos)
			require.NotNil(t, target)
			assert.Equal(t, tt.wantName, target.Name)
			if tt.wantMedia {
				assert.NotNil(t, target.Media)
				assert.Nil(t, target.Variable)
			} else {
				assert.NotNil(t, target.Variable)
				assert.Nil(t, target.Media)
			}
		})
	}
}

func TestTargetAt_Misses(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	doc := ctx.OpenDocument("file:///ws/a.css", "css", sheet)

	for name, pos := range map[string]protocol.Position{
		"property name": {Line: 2, Character: 26},
		"closing brace": {Line: 1, Character: 35},
		"past the end":  {Line: 9, Character: 0},
		"selector":      {Line: 1, Character: 2},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, helpers.TargetAt(ctx, doc, pos))
		})
	}
}

func TestTarget_Location(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	config := ctx.GetConfig()
	config.EnableCustomMedia = true
	ctx.SetConfig(config)
	doc := ctx.OpenDocument("file:///ws/a.css", "css", sheet)

	target := helpers.TargetAt(ctx, doc, protocol.Position{Line: 2, Character: 10})
	require.NotNil(t, target)
	loc := target.Location()
	assert.Equal(t, "file:///ws/a.css", loc.URI)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: 41},
	}, loc.Range)

	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 2, Character: 8},
		End:   protocol.Position{Line: 2, Character: 16},
	}, target.Range)
}
