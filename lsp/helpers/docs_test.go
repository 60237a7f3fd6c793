package helpers_test

import (
	"testing"

	"bennypowers.dev/cssvls/internal/color"
	"bennypowers.dev/cssvls/internal/variables"
	"bennypowers.dev/cssvls/lsp/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderVariable(t *testing.T) {
	red, ok := color.Parse("red")
	require.True(t, ok)

	t.Run("color", func(t *testing.T) {
		v := &variables.Variable{
			Symbol:     variables.Symbol{Name: "--brand", Value: "red"},
			Definition: variables.Location{URI: "file:///ws/theme.css"},
			Color:      &red,
		}
		out, err := helpers.RenderVariable(v)
		require.NoError(t, err)
		assert.Equal(t, "```css\n--brand: red;\n```\n\n**Color**: `#ff0000`\n\n*Defined in: /ws/theme.css*\n", out)
		assert.Equal(t, "#ff0000", helpers.VariableHex(v))
	})

	t.Run("remote source", func(t *testing.T) {
		v := &variables.Variable{
			Symbol:     variables.Symbol{Name: "--gap", Value: "4px"},
			Definition: variables.Location{URI: "https://cdn.example.com/tokens.css"},
		}
		out, err := helpers.RenderVariable(v)
		require.NoError(t, err)
		assert.Equal(t, "```css\n--gap: 4px;\n```\n\n*Defined in: https://cdn.example.com/tokens.css*\n", out)
		assert.Empty(t, helpers.VariableHex(v))
	})

	t.Run("no source", func(t *testing.T) {
		v := &variables.Variable{Symbol: variables.Symbol{Name: "--gap", Value: "4px"}}
		out, err := helpers.RenderVariable(v)
		require.NoError(t, err)
		assert.Equal(t, "```css\n--gap: 4px;\n```\n", out)
	})
}

func TestRenderCustomMedia(t *testing.T) {
	m := &variables.CustomMedia{
		Name:       "--narrow",
		Params:     "(max-width: 30em)",
		Definition: variables.Location{URI: "file:///ws/media.css"},
	}
	out, err := helpers.RenderCustomMedia(m)
	require.NoError(t, err)
	assert.Equal(t, "```css\n@custom-media --narrow (max-width: 30em);\n```\n\n*Defined in: /ws/media.css*\n", out)
}

func TestVariableHex_Nil(t *testing.T) {
	assert.Empty(t, helpers.VariableHex(nil))
}
