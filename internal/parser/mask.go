package parser

import (
	"strings"

	"bennypowers.dev/cssvls/internal/parser/html"
)

// MaskOutside blanks every byte of content outside the regions, keeping line
// breaks so that offsets and lines are preserved. A style attribute region is
// framed as a rule, x{...}, using the bytes around its quotes.
func MaskOutside(content string, regions []html.Region) string {
	out := []byte(content)
	for i, c := range out {
		if c != '\n' && c != '\r' {
			out[i] = ' '
		}
	}

	for _, r := range regions {
		if r.Start < 0 || r.End > len(content) || r.Start > r.End {
			continue
		}
		copy(out[r.Start:r.End], content[r.Start:r.End])
		if r.Type == html.StyleAttribute && r.Start >= 2 && r.End < len(content) {
			out[r.Start-2] = 'x'
			out[r.Start-1] = '{'
			out[r.End] = '}'
		}
	}
	return string(out)
}

// BlankLineComments replaces // comments with spaces. A // directly after a
// colon or an opening parenthesis is part of a URL and is kept.
func BlankLineComments(content string) string {
	if !strings.Contains(content, "//") {
		return content
	}

	out := []byte(content)
	for i := 0; i < len(out); i++ {
		switch c := out[i]; c {
		case '"', '\'':
			for i++; i < len(out) && out[i] != c && out[i] != '\n'; i++ {
				if out[i] == '\\' {
					i++
				}
			}
		case '/':
			if i+1 >= len(out) {
				continue
			}
			switch out[i+1] {
			case '*':
				end := strings.Index(content[i+2:], "*/")
				if end < 0 {
					return string(out)
				}
				i += 2 + end + 1
			case '/':
				if i > 0 && (out[i-1] == ':' || out[i-1] == '(') {
					i++
					continue
				}
				for ; i < len(out) && out[i] != '\n' && out[i] != '\r'; i++ {
					out[i] = ' '
				}
			}
		}
	}
	return string(out)
}

// MaskSCSS rewrites SCSS so the CSS grammar can read it, keeping offsets.
// Line comments and $variable statements are blanked. #{} interpolation and
// $variable references become identifier characters.
func MaskSCSS(content string) string {
	out := []byte(BlankLineComments(content))
	m := &preprocessorMask{out: out}
	m.run(func(i int) (int, bool) {
		switch out[i] {
		case '$':
			if m.statementStart && isVariableStatement(out, i+1) {
				return blankStatement(out, i), true
			}
			out[i] = '_'
		case '#':
			if i+1 < len(out) && out[i+1] == '{' {
				return fillInterpolation(out, i), false
			}
		}
		return i + 1, false
	})
	return string(out)
}

// MaskLess rewrites Less so the CSS grammar can read it, keeping offsets.
// Line comments, @variable statements and mixin calls are blanked. @{}
// interpolation and @variable references become identifier characters.
// At-rules that begin a statement, such as @media, are kept.
func MaskLess(content string) string {
	out := []byte(BlankLineComments(content))
	m := &preprocessorMask{out: out}
	m.run(func(i int) (int, bool) {
		switch c := out[i]; {
		case c == '@' && i+1 < len(out) && out[i+1] == '{':
			return fillInterpolation(out, i), false
		case c == '@' && m.statementStart:
			if isVariableStatement(out, i+1) {
				return blankStatement(out, i), true
			}
		case c == '@':
			out[i] = '_'
		case (c == '.' || c == '#') && m.statementStart && isMixinCall(out, i):
			return blankStatement(out, i), true
		case c == '~' && i+1 < len(out) && (out[i+1] == '"' || out[i+1] == '\''):
			out[i] = ' '
		}
		return i + 1, false
	})
	return string(out)
}

// preprocessorMask walks a stylesheet tracking whether the cursor begins a
// statement. Comments and strings are skipped.
type preprocessorMask struct {
	out            []byte
	statementStart bool
}

// run calls visit for each byte outside comments and strings that is neither
// whitespace nor a statement boundary. visit returns the next offset and
// whether it consumed a whole statement.
func (m *preprocessorMask) run(visit func(i int) (int, bool)) {
	out := m.out
	m.statementStart = true
	depth := 0
	for i := 0; i < len(out); {
		switch c := out[i]; {
		case c == '/' && i+1 < len(out) && out[i+1] == '*':
			i = skipBlockComment(out, i)
			continue
		case c == '"' || c == '\'':
			i = skipQuoted(out, i)
			m.statementStart = false
			continue
		case c == '{' || c == '}':
			depth = 0
			m.statementStart = true
			i++
			continue
		case c == ';' && depth == 0:
			m.statementStart = true
			i++
			continue
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			i++
			continue
		case c == '(':
			depth++
		case c == ')' && depth > 0:
			depth--
		}
		next, statement := visit(i)
		m.statementStart = statement
		i = max(next, i+1)
	}
}

// isVariableStatement reports whether a variable name starting at i is
// followed by a colon
func isVariableStatement(out []byte, i int) bool {
	j := i
	for j < len(out) && isIdentByte(out[j]) {
		j++
	}
	if j == i {
		return false
	}
	for j < len(out) && (out[j] == ' ' || out[j] == '\t') {
		j++
	}
	return j < len(out) && out[j] == ':'
}

// isMixinCall reports whether the statement starting at i ends with a
// semicolon rather than opening a block
func isMixinCall(out []byte, i int) bool {
	depth := 0
	for k := i; k < len(out); k++ {
		switch out[k] {
		case '"', '\'':
			k = skipQuoted(out, k) - 1
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				return true
			}
		case '{', '}':
			return false
		}
	}
	return false
}

// blankStatement blanks the statement starting at i through its semicolon
// and returns the offset after it. A statement whose braces close back to
// the top level ends at the closing brace; an unbalanced closing brace ends
// it and is kept.
func blankStatement(out []byte, i int) int {
	depth := 0
	k := i
	for k < len(out) {
		switch out[k] {
		case '"', '\'':
			end := skipQuoted(out, k)
			blank(out, k, end)
			k = end
			continue
		case '(', '[', '{':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '}':
			if depth == 0 {
				return k
			}
			depth--
			if depth == 0 {
				blank(out, k, k+1)
				return k + 1
			}
		case ';':
			if depth == 0 {
				blank(out, k, k+1)
				return k + 1
			}
		}
		blank(out, k, k+1)
		k++
	}
	return k
}

// fillInterpolation replaces the interpolation opening at i, #{...} or
// @{...}, with underscores and returns the offset after it
func fillInterpolation(out []byte, i int) int {
	depth := 0
	for k := i + 1; k < len(out); k++ {
		switch out[k] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				for n := i; n <= k; n++ {
					if out[n] != '\n' && out[n] != '\r' {
						out[n] = '_'
					}
				}
				return k + 1
			}
		}
	}
	return i + 1
}

func blank(out []byte, from, to int) {
	for n := from; n < to; n++ {
		if out[n] != '\n' && out[n] != '\r' {
			out[n] = ' '
		}
	}
}

func skipBlockComment(out []byte, i int) int {
	for k := i + 2; k+1 < len(out); k++ {
		if out[k] == '*' && out[k+1] == '/' {
			return k + 2
		}
	}
	return len(out)
}

func skipQuoted(out []byte, i int) int {
	quote := out[i]
	for k := i + 1; k < len(out); k++ {
		switch out[k] {
		case '\\':
			k++
		case quote:
			return k + 1
		case '\n':
			return k
		}
	}
	return len(out)
}

func isIdentByte(c byte) bool {
	return c == '-' || c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
