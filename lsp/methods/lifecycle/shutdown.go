package lifecycle

import (
	"bennypowers.dev/cssvls/internal/log"
	"bennypowers.dev/cssvls/internal/parser"
	"bennypowers.dev/cssvls/lsp/types"
)

// Shutdown releases the pooled tree-sitter parsers
func Shutdown(req *types.RequestContext) error {
	log.Info("Server shutting down")
	parser.ClosePools()
	return nil
}
