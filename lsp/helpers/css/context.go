// Package css classifies cursor positions inside stylesheet text.
package css

import "strings"

const mediaKeyword = "@media"

// IsInMediaContext reports whether offset sits inside the first parenthesized
// condition of the nearest @media rule at or before it. This is a lexical
// heuristic: it does not parse the rule, and an unclosed condition extends
// to the end of the text.
func IsInMediaContext(text string, offset int) bool {
	offset = clampOffset(text, offset)

	limit := min(len(text), offset+len(mediaKeyword))
	at := strings.LastIndex(text[:limit], mediaKeyword)
	if at < 0 {
		return false
	}

	open := strings.IndexByte(text[at:], '(')
	if open < 0 {
		return false
	}
	open += at
	if open > offset {
		return false
	}

	closing := strings.IndexByte(text[open:], ')')
	if closing < 0 {
		return true
	}
	return offset <= open+closing
}

// WordAt returns the identifier around offset along with its byte span.
// Identifiers are runs of ASCII letters, digits, '-' and '_', so a custom
// property name is returned with its dashes.
func WordAt(text string, offset int) (word string, start, end int) {
	offset = clampOffset(text, offset)

	start = offset
	for start > 0 && isWordByte(text[start-1]) {
		start--
	}
	end = offset
	for end < len(text) && isWordByte(text[end]) {
		end++
	}
	return text[start:end], start, end
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '-' || c == '_'
}

func clampOffset(text string, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(text) {
		return len(text)
	}
	return offset
}
