package position

import (
	"math"
	"sort"
)

// Mapper translates byte offsets in a document to LSP positions and back
type Mapper struct {
	text       string
	lineStarts []int
}

// NewMapper indexes the line starts of text
func NewMapper(text string) *Mapper {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Mapper{text: text, lineStarts: starts}
}

// line returns the text of line n without its terminator
func (m *Mapper) line(n int) string {
	start := m.lineStarts[n]
	end := len(m.text)
	if n+1 < len(m.lineStarts) {
		end = m.lineStarts[n+1] - 1
	}
	if end > start && m.text[end-1] == '\r' {
		end--
	}
	return m.text[start:end]
}

// Position converts a byte offset to a position, clamping to the document bounds
func (m *Mapper) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(m.text) {
		offset = len(m.text)
	}
	n := sort.Search(len(m.lineStarts), func(i int) bool { return m.lineStarts[i] > offset }) - 1
	col := ByteToUTF16(m.line(n), offset-m.lineStarts[n])
	return Position{Line: clamp(n), Character: clamp(col)}
}

// Range converts a byte span to a range
func (m *Mapper) Range(start, end int) Range {
	return Range{Start: m.Position(start), End: m.Position(end)}
}

// Offset converts a position to a byte offset. Lines past the end clamp to
// the end of the document; columns past the end of a line clamp to the line end.
func (m *Mapper) Offset(pos Position) int {
	n := int(pos.Line)
	if n >= len(m.lineStarts) {
		return len(m.text)
	}
	return m.lineStarts[n] + UTF16ToByte(m.line(n), int(pos.Character))
}

func clamp(n int) uint32 {
	if n < 0 {
		return 0
	}
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}
