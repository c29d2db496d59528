package source

import (
	"fmt"
)

// Span is a half-open byte range in the flat package address space.
type Span struct {
	Lo uint32 // в байтах включительно
	Hi uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Lo == s.Hi
}

func (s Span) Len() uint32 {
	return s.Hi - s.Lo
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Lo, s.Hi)
}

// Contains reports whether offset lies in [Lo, Hi].
func (s Span) Contains(offset uint32) bool {
	return offset >= s.Lo && offset <= s.Hi
}

func (s Span) Cover(other Span) Span {
	if other.Lo < s.Lo {
		s.Lo = other.Lo
	}
	if other.Hi > s.Hi {
		s.Hi = other.Hi
	}
	return s
}

func (s Span) ShiftLeft(n uint32) Span {
	if n > s.Lo {
		return s
	}
	return Span{Lo: s.Lo - n, Hi: s.Hi - n}
}

func (s Span) ShiftRight(n uint32) Span {
	return Span{Lo: s.Lo + n, Hi: s.Hi + n}
}
