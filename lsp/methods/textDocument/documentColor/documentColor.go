package documentcolor

import (
	"bennypowers.dev/cssvls/internal/color"
	"bennypowers.dev/cssvls/internal/documents"
	"bennypowers.dev/cssvls/internal/log"
	"bennypowers.dev/cssvls/internal/parser"
	"bennypowers.dev/cssvls/internal/position"
	"bennypowers.dev/cssvls/internal/variables"
	"bennypowers.dev/cssvls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DocumentColor reports a color for every custom property declaration and
// var() call in the document whose variable is a color. Declarations are
// marked on their name.
func DocumentColor(req *types.RequestContext, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	uri := params.TextDocument.URI
	log.Debug("DocumentColor requested: %s", uri)

	doc := req.Server.Document(uri)
	if doc == nil || !doc.IsStylesheet() {
		return []protocol.ColorInformation{}, nil
	}

	result, err := parser.Parse(doc.Content(), doc.Dialect())
	if err != nil {
		log.Warn("Failed to parse %s for colors: %v", uri, err)
		return []protocol.ColorInformation{}, nil
	}

	engine := req.Server.Engine()
	colors := []protocol.ColorInformation{}
	add := func(name string, r position.Range) {
		v, ok := engine.GetVariable(name)
		if !ok || v.Color == nil {
			return
		}
		colors = append(colors, protocol.ColorInformation{
			Range: documents.ToProtocolRange(r),
			Color: v.Color.ToProtocol(),
		})
	}

	for _, decl := range result.Declarations {
		if variables.IsCustomPropertyName(decl.Name) {
			add(decl.Name, nameRange(decl.Range, decl.Name))
		}
	}
	for _, call := range result.VarCalls {
		add(call.Name, call.Range)
	}

	return colors, nil
}

// ColorPresentation offers the hex form of a picked color
func ColorPresentation(req *types.RequestContext, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	return []protocol.ColorPresentation{
		{Label: color.ToDisplay(color.FromProtocol(params.Color))},
	}, nil
}

// nameRange is the span of a declaration's name, which opens its range
func nameRange(decl position.Range, name string) position.Range {
	end := decl.Start
	end.Character += uint32(position.UTF16Len(name))
	return position.Range{Start: decl.Start, End: end}
}
