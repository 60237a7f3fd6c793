package css_test

import (
	"strings"
	"testing"

	"bennypowers.dev/cssvls/lsp/helpers/css"
	"github.com/stretchr/testify/assert"
)

// cursor returns text with the | marker removed and the marker's offset
func cursor(t *testing.T, marked string) (string, int) {
	t.Helper()
	i := strings.Index(marked, "|")
	if i < 0 {
		t.Fatalf("no cursor marker in %q", marked)
	}
	return marked[:i] + marked[i+1:], i
}

func TestIsInMediaContext(t *testing.T) {
	tests := []struct {
		name   string
		marked string
		want   bool
	}{
		{"inside condition", "@media (--|) {}", true},
		{"right after open paren", "@media (|--small) {}", true},
		{"at close paren", "@media (--small|) {}", true},
		{"after condition", "@media (--small) |{}", false},
		{"inside block", "@media (--small) { a { color: var(--|) } }", false},
		{"unclosed condition", "@media (--sm|", true},
		{"no paren yet", "@media |", false},
		{"paren after cursor", "@media | screen and (--x) {}", false},
		{"no media rule", ":root { --a: var(--|) }", false},
		{"plain declaration after media block", "@media (--x) { a {} }\n.b { color: var(--|); }", false},
		{"nearest media wins", "@media (--x) {}\n@media (--|) {}", true},
		{"cursor inside keyword", "@me|dia (--x) {}", false},
		{"empty text", "|", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, offset := cursor(t, tt.marked)
			assert.Equal(t, tt.want, css.IsInMediaContext(text, offset))
		})
	}
}

func TestIsInMediaContextClampsOffset(t *testing.T) {
	assert.True(t, css.IsInMediaContext("@media (--x", 100))
	assert.False(t, css.IsInMediaContext("@media (--x", -3))
}

func TestWordAt(t *testing.T) {
	tests := []struct {
		name   string
		marked string
		word   string
	}{
		{"custom property", "color: var(--brand-|primary);", "--brand-primary"},
		{"cursor at start", "color: var(|--x);", "--x"},
		{"cursor at end", "color: var(--x|);", "--x"},
		{"dashes only", "color: var(--|);", "--"},
		{"no word", "a { |}", ""},
		{"underscores", "--a_b|", "--a_b"},
		{"stops at non-ascii", "é--x|", "--x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, offset := cursor(t, tt.marked)
			word, start, end := css.WordAt(text, offset)
			assert.Equal(t, tt.word, word)
			assert.Equal(t, tt.word, text[start:end])
			assert.LessOrEqual(t, start, offset)
			assert.GreaterOrEqual(t, end, offset)
		})
	}
}
