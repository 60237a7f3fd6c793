// Package resolver substitutes var() references in custom property values.
//
// Resolution is a single pass over the top-level value: substituted text is
// never scanned again. A variable that references a variable that references
// a color therefore does not resolve to that color. The indexer drives
// convergence by resolving the whole table once after each indexing batch.
package resolver

import (
	"strings"

	"bennypowers.dev/cssvls/internal/variables"
)

// Reference is one var() occurrence within a value
type Reference struct {
	Name     string
	Fallback *string
	// Start and End are byte offsets of the whole var(...) expression
	Start int
	End   int
}

// Resolve replaces each var(--name) in raw with the current value of --name
// from table. var(--name, fallback) uses fallback only when --name is absent.
// Unknown names without a fallback are left as written. When raw contains no
// reference, Resolve returns it unchanged.
func Resolve(raw string, table map[string]*variables.Variable) string {
	refs := References(raw)
	if len(refs) == 0 {
		return raw
	}

	var b strings.Builder
	last := 0
	for _, ref := range refs {
		b.WriteString(raw[last:ref.Start])
		switch v, ok := table[ref.Name]; {
		case ok && v != nil:
			b.WriteString(v.Symbol.Value)
		case ref.Fallback != nil:
			b.WriteString(*ref.Fallback)
		default:
			b.WriteString(raw[ref.Start:ref.End])
		}
		last = ref.End
	}
	b.WriteString(raw[last:])
	return b.String()
}

// References lists the top-level var() expressions in value, in order.
// References nested inside a fallback belong to that fallback and are not
// listed separately. An unterminated var( ends the scan.
func References(value string) []Reference {
	var refs []Reference
	lower := strings.ToLower(value)
	for i := 0; i < len(value); {
		idx := strings.Index(lower[i:], "var(")
		if idx < 0 {
			break
		}
		start := i + idx
		if start > 0 && isIdentByte(value[start-1]) {
			i = start + len("var(")
			continue
		}
		open := start + len("var")
		closing := matchParen(value, open)
		if closing < 0 {
			break
		}
		name, fallback := splitArgs(value[open+1 : closing])
		if name != "" {
			refs = append(refs, Reference{
				Name:     name,
				Fallback: fallback,
				Start:    start,
				End:      closing + 1,
			})
		}
		i = closing + 1
	}
	return refs
}

// matchParen returns the index of the parenthesis closing the one at open,
// skipping quoted strings, or -1
func matchParen(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitArgs splits var() arguments at the first top-level comma
func splitArgs(args string) (string, *string) {
	depth := 0
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				fallback := strings.TrimSpace(args[i+1:])
				return strings.TrimSpace(args[:i]), &fallback
			}
		}
	}
	return strings.TrimSpace(args), nil
}

func isIdentByte(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
