package lifecycle

import (
	"bennypowers.dev/cssvls/internal/log"
	"bennypowers.dev/cssvls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized loads workspace configuration, indexes the workspace and asks
// the client to watch the lookup globs. None of these failures fail the
// notification.
func Initialized(req *types.RequestContext, params *protocol.InitializedParams) error {
	log.Info("Server initialized")

	req.Server.SetGLSPContext(req.GLSP)

	if err := req.Server.LoadConfig(); err != nil {
		req.AddWarning(err)
	}

	report, err := req.Server.SyncWorkspace(req.Context())
	if err != nil {
		req.AddWarning(err)
	} else if report.Errors != nil {
		req.AddWarning(report.Errors)
	}

	if err := req.Server.RegisterFileWatchers(req.GLSP); err != nil {
		req.AddWarning(err)
	}

	return nil
}
