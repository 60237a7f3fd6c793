package position

import (
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16Len returns the length of s in UTF-16 code units
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// ByteToUTF16 converts a byte offset within line to a UTF-16 column.
// Offsets past the end of the line clamp to the line length.
func ByteToUTF16(line string, byteOffset int) int {
	if byteOffset > len(line) {
		byteOffset = len(line)
	}
	col := 0
	for i := 0; i < byteOffset; {
		r, size := utf8.DecodeRuneInString(line[i:])
		if i+size > byteOffset {
			break
		}
		if r == utf8.RuneError && size == 1 {
			col++
		} else {
			col += utf16.RuneLen(r)
		}
		i += size
	}
	return col
}

// UTF16ToByte converts a UTF-16 column within line to a byte offset.
// A column that lands inside a surrogate pair clamps to the start of the rune.
func UTF16ToByte(line string, col int) int {
	units := 0
	i := 0
	for i < len(line) && units < col {
		r, size := utf8.DecodeRuneInString(line[i:])
		n := 1
		if !(r == utf8.RuneError && size == 1) {
			n = utf16.RuneLen(r)
		}
		if units+n > col {
			break
		}
		units += n
		i += size
	}
	return i
}
