package indexer

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"bennypowers.dev/cssvls/internal/collections"
	"bennypowers.dev/cssvls/internal/log"
	"bennypowers.dev/cssvls/internal/parser/css"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// importURLPattern finds quoted absolute http(s) URLs in @import params
var importURLPattern = regexp.MustCompile(`["'](https?://[^"']+)["']`)

// ImportURLs returns the remote stylesheet URLs named by @import rules
func ImportURLs(result *css.ParseResult) []string {
	var urls []string
	for _, rule := range result.AtRulesNamed("import") {
		for _, m := range importURLPattern.FindAllStringSubmatch(rule.Params, -1) {
			urls = append(urls, m[1])
		}
	}
	return urls
}

// followImports fetches and indexes the remote imports of one stylesheet
// concurrently, returning once every branch has finished. Failures are
// logged and returned together; they never stop sibling imports.
func (e *Engine) followImports(ctx context.Context, in ParseInput, result *css.ParseResult, visited *visitSet) error {
	urls := ImportURLs(result)
	if len(urls) == 0 {
		return nil
	}
	e.imports.set(in.FilePath, urls)

	var (
		mu   sync.Mutex
		errs error
	)
	var g errgroup.Group
	for _, url := range urls {
		if !visited.add(url) {
			log.Debug("Skipping already visited import %s", url)
			continue
		}
		g.Go(func() error {
			if err := e.importURL(ctx, url, in.Settings, visited); err != nil {
				log.Warn("Skipping import %s from %s: %v", url, in.FilePath, err)
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

func (e *Engine) importURL(ctx context.Context, url string, settings Settings, visited *visitSet) error {
	fetchCtx := ctx
	if settings.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, settings.FetchTimeout)
		defer cancel()
	}
	content, err := e.getFetcher().Fetch(fetchCtx, url)
	if err != nil {
		return fmt.Errorf("failed to fetch import: %w", err)
	}
	return e.index(ctx, ParseInput{
		Content:  content,
		FilePath: url,
		Settings: settings,
	}, visited)
}

// visitSet records the stylesheets reached from one indexing call
type visitSet struct {
	mu   sync.Mutex
	seen collections.Set[string]
}

func newVisitSet(root string) *visitSet {
	return &visitSet{seen: collections.NewSet(root)}
}

// add marks url visited, reporting false if it already was
func (v *visitSet) add(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.seen.Has(url) {
		return false
	}
	v.seen.Add(url)
	return true
}

// importGraph tracks which owners import which remote stylesheets. URLs
// whose last importer went away are kept as orphans until pruned.
type importGraph struct {
	mu        sync.Mutex
	imports   map[string]collections.Set[string]
	importers map[string]collections.Set[string]
	orphans   collections.Set[string]
}

func newImportGraph() *importGraph {
	return &importGraph{
		imports:   make(map[string]collections.Set[string]),
		importers: make(map[string]collections.Set[string]),
		orphans:   collections.NewSet[string](),
	}
}

// set records the imports of owner, adding to any already recorded
func (g *importGraph) set(owner string, urls []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	out, ok := g.imports[owner]
	if !ok {
		out = collections.NewSet[string]()
		g.imports[owner] = out
	}
	for _, url := range urls {
		out.Add(url)
		in, ok := g.importers[url]
		if !ok {
			in = collections.NewSet[string]()
			g.importers[url] = in
		}
		in.Add(owner)
		g.orphans.Delete(url)
	}
}

// unlink forgets the imports of owner. URLs left without an importer become
// orphans.
func (g *importGraph) unlink(owner string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	out, ok := g.imports[owner]
	if !ok {
		return
	}
	delete(g.imports, owner)

	for url := range out {
		in := g.importers[url]
		in.Delete(owner)
		if len(in) == 0 {
			delete(g.importers, url)
			g.orphans.Add(url)
		}
	}
}

// takeOrphans returns the current orphans, sorted, and forgets them
func (g *importGraph) takeOrphans() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	orphans := g.orphans.Sorted()
	g.orphans = collections.NewSet[string]()
	return orphans
}

func (g *importGraph) clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.imports = make(map[string]collections.Set[string])
	g.importers = make(map[string]collections.Set[string])
	g.orphans = collections.NewSet[string]()
}
