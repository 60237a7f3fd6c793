package hover

import (
	"bennypowers.dev/cssvls/internal/log"
	"bennypowers.dev/cssvls/lsp/helpers"
	"bennypowers.dev/cssvls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Hover describes the custom property or custom media under the cursor
func Hover(req *types.RequestContext, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI
	log.Debug("Hover requested: %s at line %d, char %d", uri, params.Position.Line, params.Position.Character)

	doc := req.Server.Document(uri)
	if doc == nil || !doc.IsStylesheet() {
		return nil, nil
	}

	target := helpers.TargetAt(req.Server, doc, params.Position)
	if target == nil {
		return nil, nil
	}

	var (
		content string
		err     error
	)
	if target.Media != nil {
		content, err = helpers.RenderCustomMedia(target.Media)
	} else {
		content, err = helpers.RenderVariable(target.Variable)
	}
	if err != nil {
		return nil, err
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
		Range: &target.Range,
	}, nil
}
