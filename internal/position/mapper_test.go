package position_test

import (
	"testing"

	"bennypowers.dev/cssvls/internal/position"
	"github.com/stretchr/testify/assert"
)

func TestByteToUTF16(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		offset int
		want   int
	}{
		{"empty", "", 0, 0},
		{"ascii", "--color: red;", 7, 7},
		{"past end clamps", "abc", 10, 3},
		{"emoji counts as two units", "/* 🎨 */ --x", 8, 6},
		{"CJK is one unit per rune", "颜色 --x", 7, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, position.ByteToUTF16(tt.line, tt.offset))
		})
	}
}

func TestUTF16ToByte(t *testing.T) {
	assert.Equal(t, 0, position.UTF16ToByte("hello", 0))
	assert.Equal(t, 5, position.UTF16ToByte("hello", 99))
	assert.Equal(t, 4, position.UTF16ToByte("👍 hello", 2))
	assert.Equal(t, 0, position.UTF16ToByte("👍 hello", 1), "inside a surrogate pair clamps to rune start")
	assert.Equal(t, 6, position.UTF16ToByte("颜色", 2))
}

func TestMapper(t *testing.T) {
	text := ":root {\n  --a: #fff;\r\n  /* 🎨 */ --b: red;\n}"
	m := position.NewMapper(text)

	t.Run("first line", func(t *testing.T) {
		assert.Equal(t, position.Position{Line: 0, Character: 0}, m.Position(0))
	})

	t.Run("second line", func(t *testing.T) {
		assert.Equal(t, position.Position{Line: 1, Character: 2}, m.Position(10))
	})

	t.Run("emoji shifts columns on third line", func(t *testing.T) {
		offset := len(":root {\n  --a: #fff;\r\n  /* 🎨 */ ")
		assert.Equal(t, position.Position{Line: 2, Character: 11}, m.Position(offset))
	})

	t.Run("offset round trips", func(t *testing.T) {
		for _, offset := range []int{0, 5, 10, 20, len(text)} {
			assert.Equal(t, offset, m.Offset(m.Position(offset)), "offset %d", offset)
		}
	})

	t.Run("out of range clamps", func(t *testing.T) {
		assert.Equal(t, len(text), m.Offset(position.Position{Line: 99}))
		assert.Equal(t, position.Position{Line: 3, Character: 1}, m.Position(len(text)+10))
	})
}

func TestRangeContains(t *testing.T) {
	r := position.Range{
		Start: position.Position{Line: 1, Character: 2},
		End:   position.Position{Line: 1, Character: 12},
	}
	assert.True(t, r.Contains(position.Position{Line: 1, Character: 2}))
	assert.True(t, r.Contains(position.Position{Line: 1, Character: 11}))
	assert.False(t, r.Contains(position.Position{Line: 1, Character: 12}), "end is exclusive")
	assert.False(t, r.Contains(position.Position{Line: 0, Character: 5}))
}
