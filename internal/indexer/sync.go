package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"bennypowers.dev/cssvls/internal/log"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// SyncReport summarizes a workspace sync
type SyncReport struct {
	// Files is the number of files indexed without error
	Files       int
	Variables   int
	CustomMedia int
	// Errors aggregates per-file failures. They are informational: the
	// files that failed contribute nothing and the rest are indexed.
	Errors error
}

// ParseAndSyncVariables indexes every matching file under each folder, then
// resolves variable references once. Folders are walked one after another;
// the files of a folder are indexed in parallel. The error is non-nil only
// when the settings are invalid or ctx ends.
func (e *Engine) ParseAndSyncVariables(ctx context.Context, folders []string, settings Settings) (SyncReport, error) {
	var report SyncReport
	if err := settings.Validate(); err != nil {
		return report, err
	}

	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		files, walkErr := e.DiscoverFiles(folder, settings)
		report.Errors = multierr.Append(report.Errors, walkErr)
		log.Info("Found %d stylesheets in %s", len(files), folder)

		indexed, indexErr := e.indexFiles(ctx, files, settings)
		report.Files += indexed
		report.Errors = multierr.Append(report.Errors, indexErr)
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	e.ResolveVariableReferences()

	report.Variables = e.variables.Len()
	report.CustomMedia = e.media.Len()
	log.Info("Indexed %d variables and %d custom media queries from %d files",
		report.Variables, report.CustomMedia, report.Files)
	return report, nil
}

// DiscoverFiles walks root and returns the files settings select, skipping
// blacklisted directories without descending into them
func (e *Engine) DiscoverFiles(root string, settings Settings) ([]string, error) {
	var (
		files []string
		errs  error
	)

	err := afero.Walk(e.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn("Skipping %s: %v", path, err)
			errs = multierr.Append(errs, err)
			if info != nil && info.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if path != root && matchesAnyPattern(rel, settings.BlacklistFolders) {
				return filepath.SkipDir
			}
			return nil
		}

		if settings.Matches(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("failed to walk %s: %w", root, err))
	}
	return files, errs
}

// indexFiles reads and indexes files in parallel, returning how many were
// indexed without error
func (e *Engine) indexFiles(ctx context.Context, files []string, settings Settings) (int, error) {
	var (
		mu      sync.Mutex
		errs    error
		indexed int
	)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, path := range files {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			err := e.IndexFile(ctx, path, settings)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, err)
			} else {
				indexed++
			}
			return nil
		})
	}
	_ = g.Wait()
	return indexed, errs
}

// IndexFile reads path from the engine's filesystem and indexes it
func (e *Engine) IndexFile(ctx context.Context, path string, settings Settings) error {
	content, err := afero.ReadFile(e.fs, path)
	if err != nil {
		log.Warn("Failed to read %s: %v", path, err)
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return e.ParseCSSVariablesFromText(ctx, ParseInput{
		Content:  string(content),
		FilePath: path,
		Settings: settings,
	})
}
