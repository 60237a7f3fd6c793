package css

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"bennypowers.dev/cssvls/internal/collections"
	"bennypowers.dev/cssvls/internal/position"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

// Parser handles parsing CSS with tree-sitter
type Parser struct {
	parser *sitter.Parser
}

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

// parserPool is a pool of reusable CSS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return &Parser{parser: parser}
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
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// Parse parses CSS source and extracts custom property declarations,
// var() calls and at-rules
func (p *Parser) Parse(source string) (*ParseResult, error) {
	return p.ParseMasked(source, source)
}

// ParseMasked parses masked, a copy of original in which non-CSS bytes have
// been replaced by whitespace. Both strings must have the same length.
// Positions are computed against original so that columns count the
// document's real UTF-16 code units.
func (p *Parser) ParseMasked(masked, original string) (*ParseResult, error) {
	if len(masked) != len(original) {
		return nil, fmt.Errorf("masked source length %d does not match original length %d", len(masked), len(original))
	}

	source := []byte(masked)
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse CSS")
	}
	defer tree.Close()

	w := &walker{
		source:     source,
		original:   []byte(original),
		mapper:     position.NewMapper(original),
		declStarts: collections.NewSet[uint](),
		callStarts: collections.NewSet[uint](),
		result: &ParseResult{
			Declarations: []*Declaration{},
			VarCalls:     []*VarCall{},
		},
	}
	root := tree.RootNode()
	w.walk(root)
	if root.HasError() {
		w.recoverErrors(masked)
	}

	for _, rule := range ScanAtRules(masked) {
		w.result.AtRules = append(w.result.AtRules, &AtRule{
			Name:   rule.Name,
			Params: rule.Params,
			Range:  w.mapper.Range(rule.Start, rule.End),
		})
	}

	return w.result, nil
}

type walker struct {
	source   []byte
	original []byte
	mapper   *position.Mapper
	result   *ParseResult

	declStarts collections.Set[uint]
	callStarts collections.Set[uint]
}

func (w *walker) text(node *sitter.Node) string {
	return string(w.source[node.StartByte():node.EndByte()])
}

func (w *walker) rangeOf(node *sitter.Node) position.Range {
	return w.mapper.Range(int(node.StartByte()), int(node.EndByte())) //nolint:gosec // G115: byte offsets are bounded by the source length
}

// walk recursively walks the tree to find declarations and var() calls
func (w *walker) walk(node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "comment":
		return
	case "declaration":
		w.declaration(node)
	case "call_expression":
		w.callExpression(node)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		w.walk(node.Child(i))
	}
}

// declaration records a custom property declaration. The value is taken from
// the source text after the colon rather than from value nodes, since custom
// property values may hold arbitrary tokens.
func (w *walker) declaration(node *sitter.Node) {
	var propertyNode, colonNode *sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_name":
			if propertyNode == nil {
				propertyNode = child
			}
		case ":":
			if colonNode == nil {
				colonNode = child
			}
		}
	}

	if propertyNode == nil || colonNode == nil {
		return
	}

	name := w.text(propertyNode)
	if !strings.HasPrefix(name, "--") || !w.unmasked(propertyNode.StartByte(), name) {
		return
	}

	w.declStarts.Add(propertyNode.StartByte())
	w.result.Declarations = append(w.result.Declarations, &Declaration{
		Name:  name,
		Value: rawValue(string(w.original[colonNode.EndByte():node.EndByte()])),
		Range: w.rangeOf(node),
	})
}

// unmasked reports whether text at offset reads the same in the original
// source. Names built by preprocessor interpolation do not.
func (w *walker) unmasked(offset uint, text string) bool {
	end := int(offset) + len(text) //nolint:gosec // G115: byte offsets are bounded by the source length
	return end <= len(w.original) && string(w.original[offset:end]) == text
}

// rawValue trims a declaration value of its terminator and importance
func rawValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ";")
	s = strings.TrimSpace(s)
	if len(s) >= len("!important") {
		tail := s[len(s)-len("!important"):]
		if strings.EqualFold(tail, "!important") {
			s = strings.TrimSpace(s[:len(s)-len("!important")])
		}
	}
	return s
}

// callExpression records a var() call
func (w *walker) callExpression(node *sitter.Node) {
	var nameNode, argsNode *sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "function_name":
			nameNode = child
		case "arguments":
			argsNode = child
		}
	}

	if nameNode == nil || argsNode == nil || !strings.EqualFold(w.text(nameNode), "var") {
		return
	}

	var name string
	var fallback *string
	var fallbackStart uint
	for i := uint(0); i < argsNode.ChildCount(); i++ {
		child := argsNode.Child(i)
		switch kind := child.Kind(); {
		case kind == "(":
			continue
		case kind == ",":
			if fallback == nil {
				fallbackStart = child.EndByte()
				empty := ""
				fallback = &empty
			}
		case kind == ")":
			if fallback != nil {
				fb := strings.TrimSpace(string(w.original[fallbackStart:child.StartByte()]))
				fallback = &fb
			}
		case name == "":
			name = strings.TrimSpace(w.text(child))
		}
	}

	if name == "" {
		return
	}

	w.callStarts.Add(node.StartByte())
	w.result.VarCalls = append(w.result.VarCalls, &VarCall{
		Name:     name,
		Fallback: fallback,
		Range:    w.rangeOf(node),
	})
}

// recoverErrors reads declarations and var() calls lexically from source the
// grammar could not parse. Anything the tree already produced is kept as is,
// and results are put back in document order.
func (w *walker) recoverErrors(masked string) {
	recovered := false
	for _, d := range ScanDeclarations(masked) {
		if w.declStarts.Has(uint(d.Start)) || !w.unmasked(uint(d.Start), d.Name) { //nolint:gosec // G115: offsets are non-negative
			continue
		}
		recovered = true
		w.result.Declarations = append(w.result.Declarations, &Declaration{
			Name:  d.Name,
			Value: rawValue(string(w.original[d.ValueStart:d.ValueEnd])),
			Range: w.mapper.Range(d.Start, d.End),
		})
	}
	for _, c := range ScanVarCalls(masked) {
		if w.callStarts.Has(uint(c.Start)) { //nolint:gosec // G115: offsets are non-negative
			continue
		}
		recovered = true
		var fallback *string
		if c.FallbackStart >= 0 {
			fb := strings.TrimSpace(string(w.original[c.FallbackStart : c.End-1]))
			fallback = &fb
		}
		w.result.VarCalls = append(w.result.VarCalls, &VarCall{
			Name:     c.Name,
			Fallback: fallback,
			Range:    w.mapper.Range(c.Start, c.End),
		})
	}
	if !recovered {
		return
	}

	slices.SortStableFunc(w.result.Declarations, func(a, b *Declaration) int {
		return compareStart(a.Range, b.Range)
	})
	slices.SortStableFunc(w.result.VarCalls, func(a, b *VarCall) int {
		return compareStart(a.Range, b.Range)
	})
}

func compareStart(a, b position.Range) int {
	switch {
	case a.Start.Before(b.Start):
		return -1
	case b.Start.Before(a.Start):
		return 1
	default:
		return 0
	}
}
