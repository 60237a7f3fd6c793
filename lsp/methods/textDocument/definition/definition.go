package definition

import (
	"bennypowers.dev/cssvls/internal/log"
	"bennypowers.dev/cssvls/lsp/helpers"
	"bennypowers.dev/cssvls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Definition returns where the custom property or custom media under the
// cursor is declared
func Definition(req *types.RequestContext, params *protocol.DefinitionParams) (any, error) {
	uri := params.TextDocument.URI
	log.Debug("Definition requested: %s at line %d, char %d", uri, params.Position.Line, params.Position.Character)

	doc := req.Server.Document(uri)
	if doc == nil || !doc.IsStylesheet() {
		return nil, nil
	}

	target := helpers.TargetAt(req.Server, doc, params.Position)
	if target == nil {
		return nil, nil
	}
	return target.Location(), nil
}
