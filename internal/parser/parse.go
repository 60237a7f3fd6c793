package parser

import (
	"path/filepath"
	"strings"

	"bennypowers.dev/cssvls/internal/collections"
	"bennypowers.dev/cssvls/internal/parser/css"
	"bennypowers.dev/cssvls/internal/parser/html"
	"bennypowers.dev/cssvls/internal/parser/js"
	"bennypowers.dev/cssvls/internal/uriutil"
)

// Dialect selects the front-end used to read a stylesheet
type Dialect int

const (
	// Plain is CSS read directly by the CSS grammar. Also used for .sass and
	// remote imports.
	Plain Dialect = iota
	// SCSS adds // line comments, $variables, mixins and #{} interpolation
	SCSS
	// Less adds // line comments, @variables, mixin calls and @{} interpolation
	Less
	// HTML holds CSS in <style> elements and style attributes
	HTML
	// JS holds CSS in css`` and html`` tagged templates
	JS
)

func (d Dialect) String() string {
	switch d {
	case Plain:
		return "css"
	case SCSS:
		return "scss"
	case Less:
		return "less"
	case HTML:
		return "html"
	case JS:
		return "js"
	default:
		return "unknown"
	}
}

var (
	htmlExtensions = collections.NewSet(".html", ".htm", ".vue", ".svelte")
	jsExtensions   = collections.NewSet(".js", ".mjs", ".cjs", ".jsx", ".ts", ".mts", ".cts", ".tsx")
)

// languageDialects maps LSP language IDs to dialects
var languageDialects = map[string]Dialect{
	"css":             Plain,
	"sass":            Plain,
	"postcss":         Plain,
	"scss":            SCSS,
	"less":            Less,
	"html":            HTML,
	"vue":             HTML,
	"svelte":          HTML,
	"javascript":      JS,
	"javascriptreact": JS,
	"typescript":      JS,
	"typescriptreact": JS,
}

// DialectFor selects a dialect from a file path or URL extension
func DialectFor(path string) Dialect {
	if uriutil.IsRemote(path) {
		return Plain
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".scss":
		return SCSS
	case ext == ".less":
		return Less
	case htmlExtensions.Has(ext):
		return HTML
	case jsExtensions.Has(ext):
		return JS
	default:
		return Plain
	}
}

// DialectForDocument selects a dialect for an open document, preferring its
// language ID and falling back to the extension
func DialectForDocument(path, languageID string) Dialect {
	if d, ok := languageDialects[languageID]; ok {
		return d
	}
	return DialectFor(path)
}

// IsSupportedLanguage returns true if CSS can be read from documents of
// the language
func IsSupportedLanguage(languageID string) bool {
	_, ok := languageDialects[languageID]
	return ok
}

// Parse reads custom property declarations, var() calls and at-rules from
// content in the given dialect. Positions refer to content.
func Parse(content string, d Dialect) (*css.ParseResult, error) {
	masked := content
	switch d {
	case SCSS:
		masked = MaskSCSS(content)
	case Less:
		masked = MaskLess(content)
	case HTML:
		hp := html.AcquireParser()
		regions := hp.Regions(content)
		html.ReleaseParser(hp)
		if len(regions) == 0 {
			return emptyResult(), nil
		}
		masked = MaskOutside(content, regions)
	case JS:
		jp := js.AcquireParser()
		regions := jp.Regions(content)
		js.ReleaseParser(jp)
		if len(regions) == 0 {
			return emptyResult(), nil
		}
		masked = MaskOutside(content, regions)
	}

	p := css.AcquireParser()
	defer css.ReleaseParser(p)
	return p.ParseMasked(masked, content)
}

func emptyResult() *css.ParseResult {
	return &css.ParseResult{
		Declarations: []*css.Declaration{},
		VarCalls:     []*css.VarCall{},
	}
}

// ClosePools releases every pooled parser
func ClosePools() {
	css.ClosePool()
	html.ClosePool()
	js.ClosePool()
}
