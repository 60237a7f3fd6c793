package js

import (
	"fmt"
	"sort"
	"sync"

	htmlparser "bennypowers.dev/cssvls/internal/parser/html"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Parser handles parsing JS/TS to locate CSS in tagged template literals
type Parser struct {
	parser        *sitter.Parser
	templateQuery *sitter.Query
	genericQuery  *sitter.Query // matches css<Type>`...` (generic form parsed by JS grammar as binary_expression)
}

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

// parserPool is a pool of reusable JS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(jsLang); err != nil {
			panic(fmt.Sprintf("failed to set JS language: %v", err))
		}

		templateQuery, qerr := sitter.NewQuery(jsLang, `
			(call_expression
				function: (identifier) @tag
				arguments: (template_string) @template)
		`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile template query: %v", qerr))
		}

		// css<Type>`...` is valid TypeScript, but the JS grammar reads it as
		// nested binary expressions rather than a call with type arguments.
		genericQuery, qerr := sitter.NewQuery(jsLang, `
			(binary_expression
				left: (binary_expression
					left: (identifier) @tag)
				right: (template_string) @template)
		`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile generic query: %v", qerr))
		}

		return &Parser{
			parser:        parser,
			templateQuery: templateQuery,
			genericQuery:  genericQuery,
		}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close closes the parser and releases its resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
	if p.templateQuery != nil {
		p.templateQuery.Close()
	}
	if p.genericQuery != nil {
		p.genericQuery.Close()
	}
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// ParseTemplates finds css/html tagged template literals and splits them at ${...} boundaries.
// Handles both standard form (css`...`) and generic form (css<Type>`...`).
func (p *Parser) ParseTemplates(source string) []TemplateRegion {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	var regions []TemplateRegion
	for _, query := range []*sitter.Query{p.templateQuery, p.genericQuery} {
		regions = runTemplateQuery(query, root, sourceBytes, regions)
	}
	return regions
}

// Regions locates CSS in source: the literal segments of css templates as
// stylesheet regions, and the <style> and style attribute regions of html
// templates. Regions are ordered by offset.
func (p *Parser) Regions(source string) []htmlparser.Region {
	var regions []htmlparser.Region
	var hp *htmlparser.Parser

	for _, tmpl := range p.ParseTemplates(source) {
		switch tmpl.Tag {
		case "css":
			for _, seg := range tmpl.Segments {
				regions = append(regions, htmlparser.Region{
					Start: seg.Start,
					End:   seg.End,
					Type:  htmlparser.StyleTag,
				})
			}
		case "html":
			if hp == nil {
				hp = htmlparser.AcquireParser()
				defer htmlparser.ReleaseParser(hp)
			}
			for _, seg := range tmpl.Segments {
				for _, r := range hp.Regions(source[seg.Start:seg.End]) {
					regions = append(regions, r.Shift(seg.Start))
				}
			}
		}
	}

	sort.Slice(regions, func(i, j int) bool { return regions[i].Start < regions[j].Start })
	return regions
}

// runTemplateQuery executes a single tree-sitter query against the parsed tree,
// extracting matching css/html tagged template regions and appending them to regions.
func runTemplateQuery(query *sitter.Query, root *sitter.Node, sourceBytes []byte, regions []TemplateRegion) []TemplateRegion {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(query, root, sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		var tagName string
		var templateNode sitter.Node
		foundTemplate := false

		for _, capture := range match.Captures {
			switch query.CaptureNames()[capture.Index] {
			case "tag":
				tagName = string(sourceBytes[capture.Node.StartByte():capture.Node.EndByte()])
			case "template":
				templateNode = capture.Node
				foundTemplate = true
			}
		}

		if (tagName != "css" && tagName != "html") || !foundTemplate {
			continue
		}

		if segments := extractSegments(&templateNode); len(segments) > 0 {
			regions = append(regions, TemplateRegion{
				Segments: segments,
				Tag:      tagName,
			})
		}
	}

	return regions
}

// extractSegments splits a template_string node into literal text segments
// (string_fragment nodes), skipping ${...} substitutions
func extractSegments(templateNode *sitter.Node) []Segment {
	var segments []Segment
	for i := uint(0); i < templateNode.ChildCount(); i++ {
		child := templateNode.Child(i)
		if child.Kind() == "string_fragment" {
			segments = append(segments, Segment{
				Start: int(child.StartByte()), //nolint:gosec // G115: byte offsets are bounded by the source length
				End:   int(child.EndByte()),   //nolint:gosec // G115: byte offsets are bounded by the source length
			})
		}
	}
	return segments
}
