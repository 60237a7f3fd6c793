// Package color decides whether a raw CSS value denotes a color and
// normalizes it for display.
//
// Parsing is delegated to csscolorparser, which understands hex, named
// colors and the rgb/hsl/hwb functional notations. A miss is not an error:
// every function here reports absence with a boolean.
package color

import (
	"regexp"
	"strings"

	"github.com/mazznoer/csscolorparser"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Color is a normalized sRGB color with channels in the range 0..1
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// csscolorparser accepts bare hex digits ("fff", "100"), which in CSS are
// numbers or identifiers, never colors
var bareHexPattern = regexp.MustCompile(`^[0-9a-fA-F]+$`)

var colorFunctions = []string{
	"rgb(", "rgba(", "hsl(", "hsla(", "hwb(",
	"lab(", "lch(", "oklab(", "oklch(", "color(",
}

// Parse interprets value as a color. Only hex, CSS color functions and
// plain words reach csscolorparser, which also accepts forms such as hsv()
// that CSS does not.
func Parse(value string) (Color, bool) {
	value = strings.TrimSpace(value)
	if !colorSyntax(value) {
		return Color{}, false
	}
	parsed, err := csscolorparser.Parse(value)
	if err != nil {
		return Color{}, false
	}
	return Color{R: parsed.R, G: parsed.G, B: parsed.B, A: parsed.A}, true
}

// IsColorLike reports whether Parse accepts value
func IsColorLike(value string) bool {
	_, ok := Parse(value)
	return ok
}

func colorSyntax(value string) bool {
	if value == "" || bareHexPattern.MatchString(value) {
		return false
	}
	v := strings.ToLower(value)
	if strings.Contains(v, "var(") {
		return false
	}
	return v[0] == '#' || hasColorFunctionPrefix(v) || isWord(v)
}

// ToDisplay renders c as lowercase hex, with an alpha byte only when the
// color is translucent
func ToDisplay(c Color) string {
	return csscolorparser.Color{R: c.R, G: c.G, B: c.B, A: c.A}.HexString()
}

func hasColorFunctionPrefix(v string) bool {
	for _, fn := range colorFunctions {
		if strings.HasPrefix(v, fn) {
			return true
		}
	}
	return false
}

func isWord(v string) bool {
	for i := 0; i < len(v); i++ {
		c := v[i]
		if (c < 'a' || c > 'z') && c != '-' {
			return false
		}
	}
	return true
}

// ToProtocol converts c for textDocument/documentColor
func (c Color) ToProtocol() protocol.Color {
	return protocol.Color{
		Red:   protocol.Decimal(c.R),
		Green: protocol.Decimal(c.G),
		Blue:  protocol.Decimal(c.B),
		Alpha: protocol.Decimal(c.A),
	}
}

// FromProtocol converts a color sent by the client
func FromProtocol(c protocol.Color) Color {
	return Color{R: float64(c.Red), G: float64(c.Green), B: float64(c.Blue), A: float64(c.Alpha)}
}
