package lsp

import (
	"context"
	"fmt"

	"bennypowers.dev/cssvls/internal/documents"
	"bennypowers.dev/cssvls/internal/indexer"
	"bennypowers.dev/cssvls/internal/log"
	"bennypowers.dev/cssvls/internal/uriutil"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// SyncWorkspace rebuilds the index from the workspace folders, then
// re-applies the open documents on top so unsaved edits survive
func (s *Server) SyncWorkspace(ctx context.Context) (indexer.SyncReport, error) {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	settings := s.GetConfig().IndexSettings()
	folders := s.WorkspaceFolders()

	s.engine.ClearAllCache()
	report, err := s.engine.ParseAndSyncVariables(ctx, folders, settings)
	if err != nil {
		return report, fmt.Errorf("failed to index workspace: %w", err)
	}

	reapplied := 0
	for _, doc := range s.documents.GetAll() {
		if !doc.IsStylesheet() {
			continue
		}
		report.Errors = multierr.Append(report.Errors, s.indexDocument(ctx, doc, settings))
		reapplied++
	}
	if reapplied > 0 {
		s.engine.ResolveVariableReferences()
		report.Variables = len(s.engine.GetAll())
		report.CustomMedia = len(s.engine.GetAllCustomMedia())
	}

	if report.Errors != nil {
		log.Warn("Workspace indexed with %d errors", len(multierr.Errors(report.Errors)))
	}
	return report, nil
}

// IndexDocument indexes the in-memory text of an open stylesheet and
// resolves references against the updated table
func (s *Server) IndexDocument(ctx context.Context, doc *documents.Document) error {
	if doc == nil || !doc.IsStylesheet() {
		return nil
	}

	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	err := s.indexDocument(ctx, doc, s.GetConfig().IndexSettings())
	s.engine.PruneOrphanImports()
	s.engine.ResolveVariableReferences()
	return err
}

func (s *Server) indexDocument(ctx context.Context, doc *documents.Document, settings indexer.Settings) error {
	return s.engine.ParseCSSVariablesFromText(ctx, indexer.ParseInput{
		Content:  doc.Content(),
		FilePath: doc.Path(),
		Settings: settings,
	})
}

// ForgetDocument drops what a closed document contributed. When the file is
// a stylesheet on disk the workspace would index anyway, its saved content
// is indexed instead.
func (s *Server) ForgetDocument(ctx context.Context, uri string) error {
	path := uriutil.URIToPath(uri)

	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	var err error
	if s.IsLookupFile(path) && s.existsOnDisk(path) {
		err = s.engine.IndexFile(ctx, path, s.GetConfig().IndexSettings())
	} else {
		s.engine.ClearFileCache(path)
	}
	s.engine.PruneOrphanImports()
	s.engine.ResolveVariableReferences()
	return err
}

// ReindexFiles applies a batch of filesystem changes: deleted paths are
// cleared, changed lookup files are read again unless the client has them
// open. Imports nothing uses anymore are pruned and references are resolved
// once for the whole batch.
func (s *Server) ReindexFiles(ctx context.Context, changed, deleted []string) error {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	settings := s.GetConfig().IndexSettings()

	var errs error
	for _, path := range deleted {
		n := s.engine.ClearFileCache(path)
		log.Debug("Cleared %d entries from deleted %s", n, path)
	}
	for _, path := range changed {
		if !s.IsLookupFile(path) {
			continue
		}
		if s.documents.Get(uriutil.PathToURI(path)) != nil {
			log.Debug("Skipping %s: open in the editor", path)
			continue
		}
		errs = multierr.Append(errs, s.engine.IndexFile(ctx, path, settings))
	}

	if n := s.engine.PruneOrphanImports(); n > 0 {
		log.Debug("Cleared %d entries from imports no file uses", n)
	}
	s.engine.ResolveVariableReferences()
	return errs
}

func (s *Server) existsOnDisk(path string) bool {
	ok, err := afero.Exists(s.engine.Fs(), path)
	return err == nil && ok
}
