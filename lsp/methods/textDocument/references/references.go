package references

import (
	"bennypowers.dev/cssvls/internal/documents"
	"bennypowers.dev/cssvls/internal/log"
	"bennypowers.dev/cssvls/internal/parser"
	"bennypowers.dev/cssvls/lsp/helpers"
	"bennypowers.dev/cssvls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// References returns every var() usage of the custom property under the
// cursor across the open stylesheets, and its declaration when asked.
// Custom media names have no tracked usages; only their declaration is
// returned.
func References(req *types.RequestContext, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	uri := params.TextDocument.URI
	log.Debug("References requested: %s at line %d, char %d", uri, params.Position.Line, params.Position.Character)

	doc := req.Server.Document(uri)
	if doc == nil || !doc.IsStylesheet() {
		return nil, nil
	}

	target := helpers.TargetAt(req.Server, doc, params.Position)
	if target == nil {
		return nil, nil
	}

	var locations []protocol.Location
	if params.Context.IncludeDeclaration {
		locations = append(locations, target.Location())
	}
	if target.Variable != nil {
		for _, d := range req.Server.AllDocuments() {
			locations = append(locations, usages(d, target.Name)...)
		}
	}

	log.Debug("Found %d references to %s", len(locations), target.Name)
	return locations, nil
}

// usages finds the var() calls naming name in one document
func usages(doc *documents.Document, name string) []protocol.Location {
	if !doc.IsStylesheet() {
		return nil
	}
	result, err := parser.Parse(doc.Content(), doc.Dialect())
	if err != nil {
		log.Warn("Failed to parse %s for references: %v", doc.URI(), err)
		return nil
	}

	var locations []protocol.Location
	for _, call := range result.VarCalls {
		if call.Name == name {
			locations = append(locations, protocol.Location{
				URI:   doc.URI(),
				Range: documents.ToProtocolRange(call.Range),
			})
		}
	}
	return locations
}
