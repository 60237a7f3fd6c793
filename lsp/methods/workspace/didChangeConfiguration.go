package workspace

import (
	"slices"

	"bennypowers.dev/cssvls/internal/log"
	"bennypowers.dev/cssvls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeConfiguration takes the new client settings, rebuilds the
// configuration and re-indexes the workspace from scratch
func DidChangeConfiguration(req *types.RequestContext, params *protocol.DidChangeConfigurationParams) error {
	log.Info("Configuration changed")

	if err := req.Server.SetClientSettings(params.Settings); err != nil {
		// Keep the previous client settings
		req.AddWarning(err)
	}

	previous := req.Server.GetConfig()
	if err := req.Server.LoadConfig(); err != nil {
		req.AddWarning(err)
	}

	report, err := req.Server.SyncWorkspace(req.Context())
	if err != nil {
		req.AddWarning(err)
	} else if report.Errors != nil {
		req.AddWarning(report.Errors)
	}

	if !slices.Equal(previous.LookupFiles, req.Server.GetConfig().LookupFiles) {
		if err := req.Server.RegisterFileWatchers(req.GLSP); err != nil {
			req.AddWarning(err)
		}
	}

	return nil
}

