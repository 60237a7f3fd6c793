package documents

import (
	"fmt"
	"sort"
	"sync"

	"bennypowers.dev/cssvls/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Manager tracks the documents the client has open
type Manager struct {
	documents map[string]*Document
	mu        sync.RWMutex
}

// NewManager creates a new document manager
func NewManager() *Manager {
	return &Manager{
		documents: make(map[string]*Document),
	}
}

// Get retrieves a document by URI
func (m *Manager) Get(uri string) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents[uri]
}

// GetAll returns all open documents ordered by URI
func (m *Manager) GetAll() []*Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*Document, 0, len(m.documents))
	for _, doc := range m.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].uri < docs[j].uri })
	return docs
}

// DidOpen records a newly opened document, replacing any previous one with
// the same URI
func (m *Manager) DidOpen(uri, languageID string, version int, content string) *Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := NewDocument(uri, languageID, version, content)
	m.documents[uri] = doc
	return doc
}

// DidClose forgets a document
func (m *Manager) DidClose(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.documents[uri]; !exists {
		return fmt.Errorf("document not found: %s", uri)
	}

	delete(m.documents, uri)
	return nil
}

// DidChange applies content changes in order and returns the updated document
func (m *Manager) DidChange(uri string, version int, changes []protocol.TextDocumentContentChangeEvent) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, exists := m.documents[uri]
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	content := doc.Content()
	for i, change := range changes {
		if change.Range == nil {
			content = change.Text
			continue
		}
		next, err := applyEdit(content, *change.Range, change.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to apply change %d: %w", i, err)
		}
		content = next
	}

	if err := doc.SetContent(content, version); err != nil {
		return nil, fmt.Errorf("failed to set document content: %w", err)
	}
	return doc, nil
}

// applyEdit replaces the text in r with text. Positions past the end of a
// line or of the document clamp to that end, so an insertion at the line
// after the last one appends.
func applyEdit(content string, r protocol.Range, text string) (string, error) {
	m := position.NewMapper(content)
	start := m.Offset(FromProtocolPosition(r.Start))
	end := m.Offset(FromProtocolPosition(r.End))
	if end < start {
		return "", fmt.Errorf("range end %d:%d precedes start %d:%d",
			r.End.Line, r.End.Character, r.Start.Line, r.Start.Character)
	}
	return content[:start] + text + content[end:], nil
}

// FromProtocolPosition converts an LSP position
func FromProtocolPosition(p protocol.Position) position.Position {
	return position.Position{Line: p.Line, Character: p.Character}
}

// ToProtocolRange converts a range for the wire
func ToProtocolRange(r position.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Character},
	}
}
