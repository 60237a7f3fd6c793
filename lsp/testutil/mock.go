// Package testutil provides a ServerContext for handler tests.
package testutil

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"

	"bennypowers.dev/cssvls/internal/documents"
	"bennypowers.dev/cssvls/internal/fetch"
	"bennypowers.dev/cssvls/internal/indexer"
	"bennypowers.dev/cssvls/internal/uriutil"
	"bennypowers.dev/cssvls/lsp/types"
	"github.com/spf13/afero"
	"github.com/tliron/glsp"
)

// ErrOffline is returned for every remote import fetched through the mock
var ErrOffline = errors.New("network disabled in tests")

// MockServerContext implements types.ServerContext for testing.
// It indexes into a real engine backed by an in-memory filesystem, and
// exposes callbacks and flags for the operations tests need to observe.
type MockServerContext struct {
	docs        *documents.Manager
	engine      *indexer.Engine
	fs          afero.Fs
	rootURI     string
	rootPath    string
	folders     []string
	config      types.ServerConfig
	glspContext *glsp.Context

	// ClientSettings holds the last value passed to SetClientSettings
	ClientSettings any

	// Optional callbacks for custom behavior in tests
	SyncFunc             func(context.Context) (indexer.SyncReport, error)
	LoadConfigFunc       func() error
	RegisterWatchersFunc func(*glsp.Context) error

	// Tracking for tests that need to verify methods were called
	SyncCalled             bool
	LoadConfigCalled       bool
	RegisterWatchersCalled bool
	Forgotten              []string
	Changed                []string
	Deleted                []string
}

// NewMockServerContext creates a new mock server context with default behavior
func NewMockServerContext() *MockServerContext {
	fs := afero.NewMemMapFs()
	return &MockServerContext{
		docs: documents.NewManager(),
		fs:   fs,
		engine: indexer.New(
			indexer.WithFs(fs),
			indexer.WithFetcher(fetch.FetcherFunc(func(context.Context, string) (string, error) {
				return "", ErrOffline
			})),
		),
		config: types.DefaultConfig(),
	}
}

// Fs returns the in-memory filesystem the engine reads
func (m *MockServerContext) Fs() afero.Fs {
	return m.fs
}

// OpenDocument opens and indexes a document, as didOpen would
func (m *MockServerContext) OpenDocument(uri, languageID, content string) *documents.Document {
	doc := m.docs.DidOpen(uri, languageID, 1, content)
	_ = m.IndexDocument(context.Background(), doc)
	return doc
}

// Document returns the document with the given URI
func (m *MockServerContext) Document(uri string) *documents.Document {
	return m.docs.Get(uri)
}

// DocumentManager returns the document manager
func (m *MockServerContext) DocumentManager() *documents.Manager {
	return m.docs
}

// AllDocuments returns all tracked documents
func (m *MockServerContext) AllDocuments() []*documents.Document {
	return m.docs.GetAll()
}

// Engine returns the index
func (m *MockServerContext) Engine() *indexer.Engine {
	return m.engine
}

// SyncWorkspace indexes the workspace folders, or calls SyncFunc when set
func (m *MockServerContext) SyncWorkspace(ctx context.Context) (indexer.SyncReport, error) {
	m.SyncCalled = true
	if m.SyncFunc != nil {
		return m.SyncFunc(ctx)
	}
	m.engine.ClearAllCache()
	return m.engine.ParseAndSyncVariables(ctx, m.WorkspaceFolders(), m.config.IndexSettings())
}

// IndexDocument indexes a document's content and resolves references
func (m *MockServerContext) IndexDocument(ctx context.Context, doc *documents.Document) error {
	if doc == nil || !doc.IsStylesheet() {
		return nil
	}
	err := m.engine.ParseCSSVariablesFromText(ctx, indexer.ParseInput{
		Content:  doc.Content(),
		FilePath: doc.Path(),
		Settings: m.config.IndexSettings(),
	})
	m.engine.ResolveVariableReferences()
	return err
}

// ForgetDocument records the URI and clears its entries
func (m *MockServerContext) ForgetDocument(_ context.Context, uri string) error {
	m.Forgotten = append(m.Forgotten, uri)
	m.engine.ClearFileCache(uriutil.URIToPath(uri))
	return nil
}

// ReindexFiles records the batch and applies it to the engine
func (m *MockServerContext) ReindexFiles(ctx context.Context, changed, deleted []string) error {
	m.Changed = append(m.Changed, changed...)
	m.Deleted = append(m.Deleted, deleted...)
	for _, path := range deleted {
		m.engine.ClearFileCache(path)
	}
	var errs []error
	for _, path := range changed {
		if m.IsLookupFile(path) {
			errs = append(errs, m.engine.IndexFile(ctx, path, m.config.IndexSettings()))
		}
	}
	m.engine.ResolveVariableReferences()
	return errors.Join(errs...)
}

// RootURI returns the workspace root URI
func (m *MockServerContext) RootURI() string {
	return m.rootURI
}

// RootPath returns the workspace root path
func (m *MockServerContext) RootPath() string {
	return m.rootPath
}

// SetRootURI sets the workspace root URI
func (m *MockServerContext) SetRootURI(uri string) {
	m.rootURI = uri
}

// SetRootPath sets the workspace root path
func (m *MockServerContext) SetRootPath(path string) {
	m.rootPath = path
}

// WorkspaceFolders returns the folders, falling back to the root path
func (m *MockServerContext) WorkspaceFolders() []string {
	if len(m.folders) > 0 {
		return slices.Clone(m.folders)
	}
	if m.rootPath != "" {
		return []string{m.rootPath}
	}
	return nil
}

// SetWorkspaceFolders sets the workspace folders
func (m *MockServerContext) SetWorkspaceFolders(paths []string) {
	m.folders = slices.Clone(paths)
}

// GetConfig returns the current configuration
func (m *MockServerContext) GetConfig() types.ServerConfig {
	return m.config
}

// SetConfig sets the configuration
func (m *MockServerContext) SetConfig(config types.ServerConfig) {
	m.config = config
}

// SetClientSettings records the settings
func (m *MockServerContext) SetClientSettings(settings any) error {
	m.ClientSettings = settings
	return nil
}

// LoadConfig calls LoadConfigFunc when set
func (m *MockServerContext) LoadConfig() error {
	m.LoadConfigCalled = true
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc()
	}
	return nil
}

// IsLookupFile matches path against the lookup globs relative to each folder
func (m *MockServerContext) IsLookupFile(path string) bool {
	settings := m.config.IndexSettings()
	for _, root := range m.WorkspaceFolders() {
		rel, err := filepath.Rel(root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if settings.Matches(filepath.ToSlash(rel)) {
			return true
		}
	}
	return false
}

// RegisterFileWatchers calls RegisterWatchersFunc when set
func (m *MockServerContext) RegisterFileWatchers(ctx *glsp.Context) error {
	m.RegisterWatchersCalled = true
	if m.RegisterWatchersFunc != nil {
		return m.RegisterWatchersFunc(ctx)
	}
	return nil
}

// GLSPContext returns the GLSP context
func (m *MockServerContext) GLSPContext() *glsp.Context {
	return m.glspContext
}

// SetGLSPContext sets the GLSP context
func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) {
	m.glspContext = ctx
}

var _ types.ServerContext = (*MockServerContext)(nil)
