// Package helpers holds the cursor lookups and rendering shared by the
// textDocument handlers.
package helpers

import (
	"bennypowers.dev/cssvls/internal/documents"
	"bennypowers.dev/cssvls/internal/variables"
	"bennypowers.dev/cssvls/lsp/helpers/css"
	"bennypowers.dev/cssvls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Target is the indexed entity named at a cursor position. Exactly one of
// Variable and Media is set.
type Target struct {
	Name     string
	Range    protocol.Range
	Variable *variables.Variable
	Media    *variables.CustomMedia
}

// TargetAt looks up the custom property or custom media name under the
// cursor. Inside an @media condition custom media wins when it is enabled;
// otherwise, or when no custom media has the name, variables are searched.
func TargetAt(s types.ServerContext, doc *documents.Document, pos protocol.Position) *Target {
	text := doc.Content()
	offset := doc.Offset(documents.FromProtocolPosition(pos))

	word, start, end := css.WordAt(text, offset)
	if !variables.IsCustomPropertyName(word) {
		return nil
	}

	target := &Target{
		Name:  word,
		Range: documents.ToProtocolRange(doc.Range(start, end)),
	}

	engine := s.Engine()
	if s.GetConfig().EnableCustomMedia && css.IsInMediaContext(text, offset) {
		if m, ok := engine.GetCustomMedia(word); ok {
			target.Media = m
			return target
		}
	}
	if v, ok := engine.GetVariable(word); ok {
		target.Variable = v
		return target
	}
	return nil
}

// Location returns where the target is defined
func (t *Target) Location() protocol.Location {
	var def variables.Location
	switch {
	case t.Media != nil:
		def = t.Media.Definition
	case t.Variable != nil:
		def = t.Variable.Definition
	}
	return protocol.Location{
		URI:   def.URI,
		Range: documents.ToProtocolRange(def.Range),
	}
}
