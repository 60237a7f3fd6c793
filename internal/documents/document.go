package documents

import (
	"fmt"

	"bennypowers.dev/cssvls/internal/parser"
	"bennypowers.dev/cssvls/internal/position"
	"bennypowers.dev/cssvls/internal/uriutil"
)

// Document is an open text document as the client last described it
type Document struct {
	uri        string
	languageID string
	content    string
	version    int
	mapper     *position.Mapper
}

// NewDocument creates a new document
func NewDocument(uri, languageID string, version int, content string) *Document {
	return &Document{
		uri:        uri,
		languageID: languageID,
		version:    version,
		content:    content,
		mapper:     position.NewMapper(content),
	}
}

// URI returns the document's URI
func (d *Document) URI() string {
	return d.uri
}

// Path returns the filesystem path the document's URI points at
func (d *Document) Path() string {
	return uriutil.URIToPath(d.uri)
}

// LanguageID returns the document's language identifier
func (d *Document) LanguageID() string {
	return d.languageID
}

// Version returns the document's version
func (d *Document) Version() int {
	return d.version
}

// Content returns the document's current content
func (d *Document) Content() string {
	return d.content
}

// Dialect selects the stylesheet front-end for this document
func (d *Document) Dialect() parser.Dialect {
	return parser.DialectForDocument(d.Path(), d.languageID)
}

// IsStylesheet reports whether the document can contain CSS the indexer reads
func (d *Document) IsStylesheet() bool {
	return parser.IsSupportedLanguage(d.languageID)
}

// Offset converts an LSP position to a byte offset into the content
func (d *Document) Offset(pos position.Position) int {
	return d.mapper.Offset(pos)
}

// Position converts a byte offset into the content to an LSP position
func (d *Document) Position(offset int) position.Position {
	return d.mapper.Position(offset)
}

// Range converts a byte span of the content to an LSP range
func (d *Document) Range(start, end int) position.Range {
	return d.mapper.Range(start, end)
}

// SetContent updates the document's content and version.
// Returns an error if the provided version is older than the current document version,
// preventing stale updates from being applied.
func (d *Document) SetContent(content string, version int) error {
	if version < d.version {
		return fmt.Errorf("rejected stale update: document version is %d but update version is %d", d.version, version)
	}
	d.content = content
	d.version = version
	d.mapper = position.NewMapper(content)
	return nil
}
