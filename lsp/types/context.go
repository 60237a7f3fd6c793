package types

import (
	"context"

	"bennypowers.dev/cssvls/internal/documents"
	"bennypowers.dev/cssvls/internal/indexer"
	"github.com/tliron/glsp"
)

// ServerContext provides all dependencies needed for LSP handlers.
// Handlers depend on this interface rather than the server so they can be
// tested against a mock.
type ServerContext interface {
	// Document operations
	Document(uri string) *documents.Document
	DocumentManager() *documents.Manager
	AllDocuments() []*documents.Document

	// Index queries. Mutations go through the methods below, which
	// serialize them.
	Engine() *indexer.Engine

	// Index mutations
	SyncWorkspace(ctx context.Context) (indexer.SyncReport, error)
	IndexDocument(ctx context.Context, doc *documents.Document) error
	ForgetDocument(ctx context.Context, uri string) error
	ReindexFiles(ctx context.Context, changed, deleted []string) error

	// Workspace operations
	RootURI() string
	RootPath() string
	SetRootURI(uri string)
	SetRootPath(path string)
	WorkspaceFolders() []string
	SetWorkspaceFolders(paths []string)

	// Configuration
	GetConfig() ServerConfig
	SetConfig(config ServerConfig)
	SetClientSettings(settings any) error
	LoadConfig() error
	IsLookupFile(path string) bool

	// Client registration
	RegisterFileWatchers(ctx *glsp.Context) error

	// LSP context, for notifications outside a request
	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)
}
