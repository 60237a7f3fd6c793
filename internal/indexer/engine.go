// Package indexer owns the workspace index of custom properties and custom
// media queries. Files are indexed independently; references between
// variables are resolved afterwards in a single pass over the whole table.
package indexer

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"bennypowers.dev/cssvls/internal/cache"
	"bennypowers.dev/cssvls/internal/collections"
	"bennypowers.dev/cssvls/internal/color"
	"bennypowers.dev/cssvls/internal/fetch"
	"bennypowers.dev/cssvls/internal/log"
	"bennypowers.dev/cssvls/internal/parser"
	"bennypowers.dev/cssvls/internal/uriutil"
	"bennypowers.dev/cssvls/internal/variables"
	"github.com/spf13/afero"
)

// customMediaPattern splits @custom-media params into name and query
var customMediaPattern = regexp.MustCompile(`^(--[^\s]+)\s+(.+)$`)

// Engine indexes stylesheets into two tables keyed by name and partitioned
// by owning file: a file path, or the URL of an imported stylesheet
type Engine struct {
	fs        afero.Fs
	variables *cache.Cache[*variables.Variable]
	media     *cache.Cache[*variables.CustomMedia]
	imports   *importGraph

	fetcherMu sync.RWMutex
	fetcher   fetch.Fetcher
}

// Option configures an Engine
type Option func(*Engine)

// WithFs sets the filesystem files are read from
func WithFs(fs afero.Fs) Option {
	return func(e *Engine) {
		e.fs = fs
	}
}

// WithFetcher sets the fetcher used for remote @import rules
func WithFetcher(f fetch.Fetcher) Option {
	return func(e *Engine) {
		e.fetcher = f
	}
}

// New creates an engine reading from the OS filesystem and fetching
// imports over HTTP without a timeout
func New(opts ...Option) *Engine {
	e := &Engine{
		fs:        afero.NewOsFs(),
		fetcher:   fetch.NewHTTPFetcher(),
		variables: cache.New[*variables.Variable](),
		media:     cache.New[*variables.CustomMedia](),
		imports:   newImportGraph(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fs returns the filesystem the engine reads from
func (e *Engine) Fs() afero.Fs {
	return e.fs
}

// SetFetcher replaces the fetcher used for remote imports
func (e *Engine) SetFetcher(f fetch.Fetcher) {
	e.fetcherMu.Lock()
	defer e.fetcherMu.Unlock()
	e.fetcher = f
}

func (e *Engine) getFetcher() fetch.Fetcher {
	e.fetcherMu.RLock()
	defer e.fetcherMu.RUnlock()
	return e.fetcher
}

// ParseInput is one stylesheet to index
type ParseInput struct {
	Content string
	// FilePath is the owning file: a path, or a URL for fetched stylesheets
	FilePath string
	Settings Settings
}

// ParseCSSVariablesFromText replaces everything previously indexed for
// in.FilePath with the declarations in in.Content. Remote imports are
// fetched and indexed first, each owned by its URL. The returned error
// reports parse and fetch failures; declarations that could be read are
// indexed regardless. Variable references are not resolved here, see
// ResolveVariableReferences.
func (e *Engine) ParseCSSVariablesFromText(ctx context.Context, in ParseInput) error {
	return e.index(ctx, in, newVisitSet(in.FilePath))
}

func (e *Engine) index(ctx context.Context, in ParseInput, visited *visitSet) (err error) {
	if in.FilePath == "" {
		return cache.ErrNoOwner
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered while indexing %s: %v", in.FilePath, r)
			err = fmt.Errorf("failed to index %s: %v", in.FilePath, r)
		}
	}()

	e.ClearFileCache(in.FilePath)

	result, err := parser.Parse(in.Content, parser.DialectFor(in.FilePath))
	if err != nil {
		log.Warn("Failed to parse %s: %v", in.FilePath, err)
		return fmt.Errorf("failed to parse %s: %w", in.FilePath, err)
	}

	importErr := e.followImports(ctx, in, result, visited)

	uri := uriutil.ToURI(in.FilePath)

	for _, decl := range result.Declarations {
		if !variables.IsCustomPropertyName(decl.Name) {
			continue
		}
		v := &variables.Variable{
			Symbol:     variables.Symbol{Name: decl.Name, Value: decl.Value},
			Definition: variables.Location{URI: uri, Range: decl.Range},
		}
		if c, ok := color.Parse(decl.Value); ok {
			v.Color = &c
		}
		if err := e.variables.Set(in.FilePath, decl.Name, v); err != nil {
			return err
		}
	}

	if in.Settings.EnableCustomMedia {
		for _, rule := range result.AtRulesNamed("custom-media") {
			m := customMediaPattern.FindStringSubmatch(rule.Params)
			if m == nil {
				continue
			}
			cm := &variables.CustomMedia{
				Name:       m[1],
				Params:     m[2],
				Definition: variables.Location{URI: uri, Range: rule.Range},
			}
			if err := e.media.Set(in.FilePath, cm.Name, cm); err != nil {
				return err
			}
		}
	}

	return importErr
}

// ClearFileCache removes every entry owned by path and returns how many were
// removed. Entries of other owners, including the remote stylesheets path
// imported, are left alone; see PruneOrphanImports.
func (e *Engine) ClearFileCache(path string) int {
	e.imports.unlink(path)
	return e.variables.ClearFileCache(path) + e.media.ClearFileCache(path)
}

// PruneOrphanImports clears the remote stylesheets that no indexed file
// imports anymore, following their own imports in turn. Returns the number
// of entries removed.
func (e *Engine) PruneOrphanImports() int {
	n := 0
	for orphans := e.imports.takeOrphans(); len(orphans) > 0; orphans = e.imports.takeOrphans() {
		for _, url := range orphans {
			n += e.ClearFileCache(url)
		}
	}
	if n > 0 {
		log.Debug("Pruned %d entries from unused imports", n)
	}
	return n
}

// ClearAllCache empties both tables
func (e *Engine) ClearAllCache() {
	e.variables.ClearAllCache()
	e.media.ClearAllCache()
	e.imports.clear()
}

// GetAll returns a copy of every indexed variable, keyed by name
func (e *Engine) GetAll() map[string]*variables.Variable {
	all := e.variables.GetAll()
	for name, v := range all {
		all[name] = v.Clone()
	}
	return all
}

// GetVariable returns a copy of the named variable
func (e *Engine) GetVariable(name string) (*variables.Variable, bool) {
	v, ok := e.variables.Get(name)
	if !ok {
		return nil, false
	}
	return v.Clone(), true
}

// GetAllCustomMedia returns a copy of every indexed custom media query,
// keyed by name
func (e *Engine) GetAllCustomMedia() map[string]*variables.CustomMedia {
	all := e.media.GetAll()
	for name, m := range all {
		all[name] = m.Clone()
	}
	return all
}

// GetCustomMedia returns a copy of the named custom media query
func (e *Engine) GetCustomMedia(name string) (*variables.CustomMedia, bool) {
	m, ok := e.media.Get(name)
	if !ok {
		return nil, false
	}
	return m.Clone(), true
}

// Files lists every owning file with at least one entry, sorted
func (e *Engine) Files() []string {
	files := collections.NewSet(e.variables.Files()...)
	files.Add(e.media.Files()...)
	return files.Sorted()
}
