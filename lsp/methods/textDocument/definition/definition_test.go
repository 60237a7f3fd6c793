package definition

import (
	"testing"

	"bennypowers.dev/cssvls/lsp/testutil"
	"bennypowers.dev/cssvls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const (
	tokensURI = "file:///ws/tokens.css"
	tokens    = `@custom-media --narrow (max-width: 30em);
:root {
  --brand: #ff0000;
}
`
	pageURI = "file:///ws/page.css"
	page    = `@media (--narrow) {
  a { color: var(--brand); }
}
`
)

func definitionAt(t *testing.T, ctx *testutil.MockServerContext, uri string, line, char uint32) any {
	t.Helper()
	req := types.NewRequestContext(ctx, &glsp.Context{})
	result, err := Definition(req, &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: line, Character: char},
		},
	})
	require.NoError(t, err)
	return result
}

func rng(startLine, startChar, endLine, endChar uint32) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: startLine, Character: startChar},
		End:   protocol.Position{Line: endLine, Character: endChar},
	}
}

func TestDefinition_VariableInAnotherFile(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	ctx.OpenDocument(tokensURI, "css", tokens)
	ctx.OpenDocument(pageURI, "css", page)

	result := definitionAt(t, ctx, pageURI, 1, 19)

	loc, ok := result.(protocol.Location)
	require.True(t, ok, "expected a single location, got %T", result)
	assert.Equal(t, tokensURI, loc.URI)
	assert.Equal(t, rng(2, 2, 2, 19), loc.Range)
}

func TestDefinition_OnDeclarationItself(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	ctx.OpenDocument(tokensURI, "css", tokens)

	loc, ok := definitionAt(t, ctx, tokensURI, 2, 4).(protocol.Location)
	require.True(t, ok)
	assert.Equal(t, tokensURI, loc.URI)
	assert.Equal(t, rng(2, 2, 2, 19), loc.Range)
}

func TestDefinition_CustomMedia(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	config := ctx.GetConfig()
	config.EnableCustomMedia = true
	ctx.SetConfig(config)
	ctx.OpenDocument(tokensURI, "css", tokens)
	ctx.OpenDocument(pageURI, "css", page)

	loc, ok := definitionAt(t, ctx, pageURI, 0, 10).(protocol.Location)
	require.True(t, ok)
	assert.Equal(t, tokensURI, loc.URI)
	assert.Equal(t, rng(0, 0, 0, 41), loc.Range)
}

func TestDefinition_NotFound(t *testing.T) {
	ctx := testutil.NewMockServerContext()
	ctx.OpenDocument(pageURI, "css", page)

	t.Run("undefined variable", func(t *testing.T) {
		assert.Nil(t, definitionAt(t, ctx, pageURI, 1, 19))
	})
	t.Run("custom media disabled", func(t *testing.T) {
		assert.Nil(t, definitionAt(t, ctx, pageURI, 0, 10))
	})
	t.Run("unknown document", func(t *testing.T) {
		assert.Nil(t, definitionAt(t, ctx, "file:///ws/missing.css", 0, 0))
	})
}
