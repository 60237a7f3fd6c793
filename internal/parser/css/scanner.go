package css

import "strings"

// RawAtRule is an at-rule located by ScanAtRules, with byte offsets
type RawAtRule struct {
	Name   string
	Params string
	Start  int
	End    int
}

// ScanAtRules finds at-rule preludes in text, skipping comments and strings.
// Blocks are not skipped, so at-rules nested in @media or @supports are found
// too. The prelude ends at the first semicolon or brace outside parentheses
// and strings; a semicolon terminator is part of the rule, a brace is not.
func ScanAtRules(text string) []RawAtRule {
	var rules []RawAtRule
	for i := 0; i < len(text); {
		switch c := text[i]; {
		case c == '/' && strings.HasPrefix(text[i:], "/*"):
			i = skipComment(text, i)
		case c == '"' || c == '\'':
			i = skipString(text, i)
		case c == '@':
			j := i + 1
			for j < len(text) && isNameByte(text[j]) {
				j++
			}
			if j == i+1 {
				i++
				continue
			}
			paramsEnd, end := scanPrelude(text, j)
			rules = append(rules, RawAtRule{
				Name:   strings.ToLower(text[i+1 : j]),
				Params: strings.TrimSpace(text[j:paramsEnd]),
				Start:  i,
				End:    end,
			})
			i = end
		default:
			i++
		}
	}
	return rules
}

// scanPrelude returns the end of an at-rule's params and the end of the rule
func scanPrelude(text string, from int) (paramsEnd, end int) {
	depth := 0
	for k := from; k < len(text); {
		switch c := text[k]; {
		case c == '/' && strings.HasPrefix(text[k:], "/*"):
			k = skipComment(text, k)
			continue
		case c == '"' || c == '\'':
			k = skipString(text, k)
			continue
		case c == '(' || c == '[':
			depth++
		case (c == ')' || c == ']') && depth > 0:
			depth--
		case c == ';' && depth == 0:
			return k, k + 1
		case (c == '{' || c == '}') && depth == 0:
			return k, from + len(strings.TrimRight(text[from:k], " \t\r\n"))
		}
		k++
	}
	return len(text), from + len(strings.TrimRight(text[from:], " \t\r\n"))
}

// skipComment returns the offset just past the comment starting at i
func skipComment(text string, i int) int {
	end := strings.Index(text[i+2:], "*/")
	if end < 0 {
		return len(text)
	}
	return i + 2 + end + 2
}

// skipString returns the offset just past the string starting at i. An
// unescaped newline ends an unterminated string.
func skipString(text string, i int) int {
	quote := text[i]
	for k := i + 1; k < len(text); k++ {
		switch text[k] {
		case '\\':
			k++
		case quote:
			return k + 1
		case '\n':
			return k
		}
	}
	return len(text)
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// RawDeclaration is a custom property declaration located by
// ScanDeclarations, with byte offsets. The value span excludes the colon and
// the terminator.
type RawDeclaration struct {
	Name       string
	ValueStart int
	ValueEnd   int
	Start      int
	End        int
}

// ScanDeclarations finds --name: value declarations in text, skipping
// comments and strings. A declaration must begin a statement, that is follow
// a brace, a semicolon or the start of the text. The value ends at the first
// semicolon or unbalanced closing brace; a semicolon terminator is part of
// the declaration.
func ScanDeclarations(text string) []RawDeclaration {
	var decls []RawDeclaration
	statementStart := true
	depth := 0
	for i := 0; i < len(text); {
		switch c := text[i]; {
		case c == '/' && strings.HasPrefix(text[i:], "/*"):
			i = skipComment(text, i)
			continue
		case c == '"' || c == '\'':
			i = skipString(text, i)
			statementStart = false
			continue
		case c == '(' || c == '[':
			depth++
		case (c == ')' || c == ']') && depth > 0:
			depth--
		case c == '{' || c == '}':
			depth = 0
			statementStart = true
			i++
			continue
		case c == ';' && depth == 0:
			statementStart = true
			i++
			continue
		case isSpace(c):
			i++
			continue
		case statementStart && depth == 0 && strings.HasPrefix(text[i:], "--"):
			if d, ok := scanDeclaration(text, i); ok {
				decls = append(decls, d)
				i = d.End
				continue
			}
		}
		statementStart = false
		i++
	}
	return decls
}

// scanDeclaration reads the declaration whose name starts at i
func scanDeclaration(text string, i int) (RawDeclaration, bool) {
	j := i + 2
	for j < len(text) && (isNameByte(text[j]) || text[j] >= 0x80) {
		j++
	}
	if j == i+2 {
		return RawDeclaration{}, false
	}
	k := j
	for k < len(text) && isSpace(text[k]) {
		k++
	}
	if k >= len(text) || text[k] != ':' {
		return RawDeclaration{}, false
	}

	d := RawDeclaration{Name: text[i:j], Start: i, ValueStart: k + 1}
	depth := 0
	for k++; k < len(text); {
		switch c := text[k]; {
		case c == '/' && strings.HasPrefix(text[k:], "/*"):
			k = skipComment(text, k)
			continue
		case c == '"' || c == '\'':
			k = skipString(text, k)
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == '}':
			if depth == 0 {
				d.ValueEnd = k
				d.End = i + len(strings.TrimRight(text[i:k], " \t\r\n\f"))
				return d, true
			}
			depth--
		case c == ';' && depth == 0:
			d.ValueEnd = k
			d.End = k + 1
			return d, true
		}
		k++
	}
	d.ValueEnd = len(text)
	d.End = i + len(strings.TrimRight(text[i:], " \t\r\n\f"))
	return d, true
}

// RawVarCall is a var() call located by ScanVarCalls, with byte offsets.
// FallbackStart is negative when the call has no fallback.
type RawVarCall struct {
	Name          string
	FallbackStart int
	Start         int
	End           int
}

// ScanVarCalls finds var() calls in text, skipping comments and strings.
// Calls nested in a fallback are reported after the call holding them.
func ScanVarCalls(text string) []RawVarCall {
	var calls []RawVarCall
	for i := 0; i < len(text); {
		switch c := text[i]; {
		case c == '/' && strings.HasPrefix(text[i:], "/*"):
			i = skipComment(text, i)
			continue
		case c == '"' || c == '\'':
			i = skipString(text, i)
			continue
		case (c == 'v' || c == 'V') && len(text)-i >= 4 && strings.EqualFold(text[i:i+4], "var(") &&
			(i == 0 || !isNameByte(text[i-1])):
			if call, ok := scanVarCall(text, i); ok {
				calls = append(calls, call)
			}
			i += 4
			continue
		}
		i++
	}
	return calls
}

// scanVarCall reads the var() call starting at i
func scanVarCall(text string, i int) (RawVarCall, bool) {
	call := RawVarCall{Start: i, FallbackStart: -1}
	nameEnd := -1
	depth := 0
	for k := i + 4; k < len(text); {
		switch c := text[k]; {
		case c == '/' && strings.HasPrefix(text[k:], "/*"):
			k = skipComment(text, k)
			continue
		case c == '"' || c == '\'':
			k = skipString(text, k)
			continue
		case c == '(':
			depth++
		case c == ',' && depth == 0 && nameEnd < 0:
			nameEnd = k
			call.FallbackStart = k + 1
		case c == ';' || c == '{' || c == '}':
			return RawVarCall{}, false
		case c == ')':
			if depth > 0 {
				depth--
				break
			}
			if nameEnd < 0 {
				nameEnd = k
			}
			call.Name = strings.TrimSpace(text[i+4 : nameEnd])
			call.End = k + 1
			return call, call.Name != ""
		}
		k++
	}
	return RawVarCall{}, false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
