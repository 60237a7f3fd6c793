package workspace

import (
	"bennypowers.dev/cssvls/internal/log"
	"bennypowers.dev/cssvls/internal/uriutil"
	"bennypowers.dev/cssvls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeWatchedFiles clears deleted files and re-reads created or changed
// ones, then resolves references once for the whole batch
func DidChangeWatchedFiles(req *types.RequestContext, params *protocol.DidChangeWatchedFilesParams) error {
	log.Debug("Watched files changed: %d files", len(params.Changes))

	var changed, deleted []string
	for _, change := range params.Changes {
		path := uriutil.URIToPath(change.URI)
		switch change.Type {
		case protocol.FileChangeTypeDeleted:
			deleted = append(deleted, path)
		case protocol.FileChangeTypeCreated, protocol.FileChangeTypeChanged:
			changed = append(changed, path)
		}
	}

	if len(changed) == 0 && len(deleted) == 0 {
		return nil
	}

	if err := req.Server.ReindexFiles(req.Context(), changed, deleted); err != nil {
		req.AddWarning(err)
	}
	return nil
}
