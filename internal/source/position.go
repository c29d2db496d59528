package source

import (
	"fmt"
	"unicode/utf8"
)

// Encoding is the unit columns are counted in.
type Encoding uint8

const (
	// EncodingUTF8 counts columns in bytes.
	EncodingUTF8 Encoding = iota
	// EncodingUTF16 counts columns in UTF-16 code units (LSP default).
	EncodingUTF16
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf-8"
	case EncodingUTF16:
		return "utf-16"
	}
	return "unknown"
}

// ParseEncoding accepts the LSP spellings of position encodings.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "utf-16", "utf16", "":
		return EncodingUTF16, nil
	}
	return EncodingUTF16, fmt.Errorf("unknown position encoding %q (expected: utf-8|utf-16)", s)
}

// Position is a 0-based line/column pair as reported by an editor.
type Position struct {
	Line   uint32
	Column uint32
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// ToUTF8ByteOffset converts the position to a byte offset within src.
// Lines past the end map to len(contents); columns past the end of a line
// map to the end of that line. The result never exceeds len(contents).
func (p Position) ToUTF8ByteOffset(enc Encoding, src *Source) uint32 {
	contentLen := src.Len()
	start, end, ok := lineBounds(src.LineIdx, contentLen, p.Line)
	if !ok {
		return contentLen
	}
	if enc == EncodingUTF8 {
		if p.Column > end-start {
			return end
		}
		return start + p.Column
	}
	units := uint32(0)
	off := start
	for off < end && units < p.Column {
		r, size := utf8.DecodeRuneInString(src.Contents[off:end])
		need := uint32(1)
		if r > 0xFFFF {
			need = 2
		}
		if units+need > p.Column {
			break
		}
		units += need
		off += mustUint32(size, "rune size")
	}
	return off
}

// PositionFromUTF8ByteOffset is the inverse of ToUTF8ByteOffset.
// offset is relative to the start of src and is clamped to its length.
func PositionFromUTF8ByteOffset(enc Encoding, src *Source, offset uint32) Position {
	contentLen := src.Len()
	if offset > contentLen {
		offset = contentLen
	}
	line := searchLine(src.LineIdx, offset)
	var lineStart uint32
	if line > 0 {
		lineStart = src.LineIdx[line-1] + 1
	}
	if enc == EncodingUTF8 {
		return Position{Line: line, Column: offset - lineStart}
	}
	units := uint32(0)
	for off := lineStart; off < offset; {
		r, size := utf8.DecodeRuneInString(src.Contents[off:offset])
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		off += mustUint32(size, "rune size")
	}
	return Position{Line: line, Column: units}
}

// searchLine returns the 0-based line containing offset.
func searchLine(lineIdx []uint32, offset uint32) uint32 {
	// бинпоиск: количество переводов строки строго до offset
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return mustUint32(lo, "line number")
}
