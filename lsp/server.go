package lsp

import (
	"slices"
	"sync"

	"bennypowers.dev/cssvls/internal/documents"
	"bennypowers.dev/cssvls/internal/indexer"
	"bennypowers.dev/cssvls/internal/parser"
	"bennypowers.dev/cssvls/lsp/methods/lifecycle"
	"bennypowers.dev/cssvls/lsp/methods/textDocument"
	"bennypowers.dev/cssvls/lsp/methods/textDocument/completion"
	"bennypowers.dev/cssvls/lsp/methods/textDocument/definition"
	documentcolor "bennypowers.dev/cssvls/lsp/methods/textDocument/documentColor"
	"bennypowers.dev/cssvls/lsp/methods/textDocument/hover"
	"bennypowers.dev/cssvls/lsp/methods/textDocument/references"
	"bennypowers.dev/cssvls/lsp/methods/workspace"
	"bennypowers.dev/cssvls/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

// Name is the server name reported to clients
const Name = lifecycle.ServerName

// Verify that Server implements ServerContext interface
var _ types.ServerContext = (*Server)(nil)

// Server is the CSS Variables Language Server
type Server struct {
	documents  *documents.Manager
	engine     *indexer.Engine
	glspServer *server.Server
	context    *glsp.Context

	rootURI        string             // Workspace root URI
	rootPath       string             // Workspace root path (file system)
	folders        []string           // Workspace folder paths
	config         types.ServerConfig // Effective configuration
	clientSettings types.ConfigPatch  // Settings sent by the client, applied last
	watcherID      string             // Current didChangeWatchedFiles registration
	configMu       sync.RWMutex       // Protects the fields above

	// indexMu serializes every mutation of the index, so a file is never
	// indexed by two requests at once
	indexMu sync.Mutex
}

// NewServer creates a new server. Options configure the index engine.
func NewServer(opts ...indexer.Option) (*Server, error) {
	s := &Server{
		documents: documents.NewManager(),
		engine:    indexer.New(opts...),
		config:    types.DefaultConfig(),
	}

	protocolHandler := protocol.Handler{
		Initialize:                      method(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                        notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", workspace.DidChangeConfiguration),
		WorkspaceDidChangeWatchedFiles:  notify(s, "workspace/didChangeWatchedFiles", workspace.DidChangeWatchedFiles),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", textDocument.DidClose),
		TextDocumentHover:               method(s, "textDocument/hover", hover.Hover),
		TextDocumentCompletion:          method(s, "textDocument/completion", completion.Completion),
		TextDocumentDefinition:          method(s, "textDocument/definition", definition.Definition),
		TextDocumentReferences:          method(s, "textDocument/references", references.References),
		TextDocumentColor:               method(s, "textDocument/documentColor", documentcolor.DocumentColor),
		TextDocumentColorPresentation:   method(s, "textDocument/colorPresentation", documentcolor.ColorPresentation),
	}

	s.glspServer = server.NewServer(&protocolHandler, Name, false)

	return s, nil
}

// RunStdio starts the LSP server using stdio transport
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Close releases the pooled parsers. It is safe to call Close multiple times.
func (s *Server) Close() error {
	parser.ClosePools()
	return nil
}

// Document returns the document with the given URI
func (s *Server) Document(uri string) *documents.Document {
	return s.documents.Get(uri)
}

// DocumentManager returns the document manager
func (s *Server) DocumentManager() *documents.Manager {
	return s.documents
}

// AllDocuments returns all tracked documents
func (s *Server) AllDocuments() []*documents.Document {
	return s.documents.GetAll()
}

// Engine returns the index
func (s *Server) Engine() *indexer.Engine {
	return s.engine
}

// RootURI returns the workspace root URI
func (s *Server) RootURI() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootURI
}

// RootPath returns the workspace root path
func (s *Server) RootPath() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootPath
}

// SetRootURI sets the workspace root URI
func (s *Server) SetRootURI(uri string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootURI = uri
}

// SetRootPath sets the workspace root path
func (s *Server) SetRootPath(path string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootPath = path
}

// WorkspaceFolders returns the folders to index. Without explicit folders
// the root path is the only one.
func (s *Server) WorkspaceFolders() []string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	if len(s.folders) > 0 {
		return slices.Clone(s.folders)
	}
	if s.rootPath != "" {
		return []string{s.rootPath}
	}
	return nil
}

// SetWorkspaceFolders sets the folders to index
func (s *Server) SetWorkspaceFolders(paths []string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.folders = slices.Clone(paths)
}

// GLSPContext returns the GLSP context.
// Access is protected by configMu to prevent concurrent races.
func (s *Server) GLSPContext() *glsp.Context {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.context
}

// SetGLSPContext sets the GLSP context.
// Access is protected by configMu to prevent concurrent races.
func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.context = ctx
}
