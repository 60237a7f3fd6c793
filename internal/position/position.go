// Package position converts between Go byte offsets and LSP positions.
//
// LSP positions are zero-based lines and UTF-16 code unit columns. Stylesheet
// parsers report byte offsets, so every range that leaves the indexer passes
// through a Mapper built from the original document text.
package position

// Position is a zero-based line and UTF-16 character offset
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Range is a half-open span between two positions
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Before reports whether p sorts strictly before other
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Character < other.Character
}

// Contains reports whether pos lies within r. The end is exclusive.
func (r Range) Contains(pos Position) bool {
	if pos.Before(r.Start) {
		return false
	}
	return pos.Before(r.End)
}
