package textDocument

import (
	"bennypowers.dev/cssvls/internal/log"
	"bennypowers.dev/cssvls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidOpen tracks the document and indexes its text
func DidOpen(req *types.RequestContext, params *protocol.DidOpenTextDocumentParams) error {
	log.Debug("Document opened: %s (language: %s, version: %d)",
		params.TextDocument.URI, params.TextDocument.LanguageID, params.TextDocument.Version)

	doc := req.Server.DocumentManager().DidOpen(params.TextDocument.URI, params.TextDocument.LanguageID,
		int(params.TextDocument.Version), params.TextDocument.Text)

	if err := req.Server.IndexDocument(req.Context(), doc); err != nil {
		req.AddWarning(err)
	}
	return nil
}

// DidChange applies the edits and indexes the new text
func DidChange(req *types.RequestContext, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	version := int(params.TextDocument.Version)

	log.Debug("Document changed: %s (version: %d, changes: %d)", uri, version, len(params.ContentChanges))

	// glsp decodes each change as one of two concrete types
	changes := make([]protocol.TextDocumentContentChangeEvent, 0, len(params.ContentChanges))
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			changes = append(changes, c)
		case protocol.TextDocumentContentChangeEventWhole:
			changes = append(changes, protocol.TextDocumentContentChangeEvent{Text: c.Text})
		}
	}

	doc, err := req.Server.DocumentManager().DidChange(uri, version, changes)
	if err != nil {
		return err
	}

	if err := req.Server.IndexDocument(req.Context(), doc); err != nil {
		req.AddWarning(err)
	}
	return nil
}

// DidClose forgets the document
func DidClose(req *types.RequestContext, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debug("Document closed: %s", uri)

	if err := req.Server.DocumentManager().DidClose(uri); err != nil {
		return err
	}
	return req.Server.ForgetDocument(req.Context(), uri)
}
