package source

import (
	"fmt"

	"fortio.org/safecast"
)

func mustUint32(n int, what string) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("%s should fit into u32: %w", what, err))
	}
	return v
}

func buildLineIndex(content string) []uint32 {
	out := make([]uint32, 0, len(content)/32+1)
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			out = append(out, mustUint32(i, "line offset"))
		}
	}
	return out
}

// lineBounds returns the [start, end) byte range of a 0-based line, without
// the trailing newline. ok is false when the line is past the end.
func lineBounds(lineIdx []uint32, contentLen uint32, line uint32) (start, end uint32, ok bool) {
	if int(line) > len(lineIdx) {
		return contentLen, contentLen, false
	}
	if line > 0 {
		start = lineIdx[line-1] + 1
	}
	end = contentLen
	if int(line) < len(lineIdx) {
		end = lineIdx[line]
	}
	return start, end, true
}
