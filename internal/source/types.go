package source

// Entry is a (name, contents) pair handed to a SourceMap.
type Entry struct {
	Name     string
	Contents string
}

// Source is a single named buffer placed in the SourceMap address space.
type Source struct {
	Name     string
	Contents string
	Offset   uint32   // base offset in the package address space
	LineIdx  []uint32 // offsets of '\n' within Contents
}

// Len returns the byte length of the source contents.
func (s *Source) Len() uint32 {
	return mustUint32(len(s.Contents), "source length")
}

// Span returns the global span covering the whole source.
func (s *Source) Span() Span {
	return Span{Lo: s.Offset, Hi: s.Offset + s.Len()}
}

// Contains reports whether the global offset falls inside the source,
// including the end-of-file position.
func (s *Source) Contains(offset uint32) bool {
	return offset >= s.Offset && offset <= s.Offset+s.Len()
}
