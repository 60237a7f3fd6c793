package completion

import (
	"sort"
	"strings"

	"bennypowers.dev/cssvls/internal/documents"
	"bennypowers.dev/cssvls/internal/log"
	"bennypowers.dev/cssvls/lsp/helpers"
	"bennypowers.dev/cssvls/lsp/helpers/css"
	"bennypowers.dev/cssvls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Completion offers custom media names inside an @media condition, when
// custom media is enabled, and custom properties everywhere else. Each item
// replaces the word under the cursor.
func Completion(req *types.RequestContext, params *protocol.CompletionParams) (any, error) {
	uri := params.TextDocument.URI
	pos := params.Position
	log.Debug("Completion requested: %s at line %d, char %d", uri, pos.Line, pos.Character)

	doc := req.Server.Document(uri)
	if doc == nil || !doc.IsStylesheet() {
		return nil, nil
	}

	text := doc.Content()
	offset := doc.Offset(documents.FromProtocolPosition(pos))
	_, start, end := css.WordAt(text, offset)
	replace := documents.ToProtocolRange(doc.Range(start, end))

	var items []protocol.CompletionItem
	if req.Server.GetConfig().EnableCustomMedia && css.IsInMediaContext(text, offset) {
		items = customMediaItems(req.Server, replace)
	} else {
		items = variableItems(req.Server, replace, wrapInVar(text, start))
	}

	log.Debug("Returning %d completion items", len(items))
	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

func variableItems(s types.ServerContext, replace protocol.Range, wrap bool) []protocol.CompletionItem {
	all := s.Engine().GetAll()
	items := make([]protocol.CompletionItem, 0, len(all))
	for _, v := range all {
		kind := protocol.CompletionItemKindVariable
		if v.IsColor() {
			kind = protocol.CompletionItemKindColor
		}

		newText := v.Name()
		if wrap {
			newText = "var(" + v.Name() + ")"
		}

		value := v.Value()
		item := protocol.CompletionItem{
			Label:      v.Name(),
			Kind:       &kind,
			Detail:     &value,
			FilterText: strPtr(v.Name()),
			TextEdit:   protocol.TextEdit{Range: replace, NewText: newText},
		}
		if hex := helpers.VariableHex(v); hex != "" {
			// Clients draw a swatch for Color items whose documentation is a color
			item.Documentation = hex
		} else if doc, err := helpers.RenderVariable(v); err == nil {
			item.Documentation = protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: doc}
		}
		items = append(items, item)
	}
	sortItems(items)
	return items
}

func customMediaItems(s types.ServerContext, replace protocol.Range) []protocol.CompletionItem {
	all := s.Engine().GetAllCustomMedia()
	items := make([]protocol.CompletionItem, 0, len(all))
	for _, m := range all {
		kind := protocol.CompletionItemKindConstant
		params := m.Params
		item := protocol.CompletionItem{
			Label:    m.Name,
			Kind:     &kind,
			Detail:   &params,
			TextEdit: protocol.TextEdit{Range: replace, NewText: m.Name},
		}
		if doc, err := helpers.RenderCustomMedia(m); err == nil {
			item.Documentation = protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: doc}
		}
		items = append(items, item)
	}
	sortItems(items)
	return items
}

// wrapInVar reports whether a completed name needs a var() around it: only
// where a value is being typed and no var( precedes the word
func wrapInVar(text string, wordStart int) bool {
	before := strings.TrimRight(text[:wordStart], " \t")
	if strings.HasSuffix(strings.ToLower(before), "var(") {
		return false
	}
	// Start of a declaration, where the name itself is being written
	if before == "" {
		return false
	}
	switch before[len(before)-1] {
	case '{', ';', '\n', '\r':
		return false
	}
	return true
}

func sortItems(items []protocol.CompletionItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
}

func strPtr(s string) *string {
	return &s
}
