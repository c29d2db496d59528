package source

import (
	"sort"
)

// SourceMap is an ordered collection of named buffers sharing one flat
// offset space. Each source occupies [Offset, Offset+len] and is followed
// by a one byte gap, so the end-of-file offset of a source never equals
// the start of the next one.
type SourceMap struct {
	sources []*Source
	index   map[string]int // name -> position in sources
	next    uint32
}

// NewSourceMap builds a SourceMap from entries, preserving their order.
func NewSourceMap(entries ...Entry) *SourceMap {
	m := &SourceMap{
		sources: make([]*Source, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		m.Push(e.Name, e.Contents)
	}
	return m
}

// Push appends a source and returns its base offset.
// A later source with the same name shadows the earlier one in FindByName.
func (m *SourceMap) Push(name, contents string) uint32 {
	offset := m.next
	src := &Source{
		Name:     name,
		Contents: contents,
		Offset:   offset,
		LineIdx:  buildLineIndex(contents),
	}
	m.sources = append(m.sources, src)
	m.index[name] = len(m.sources) - 1
	m.next = offset + src.Len() + 1
	return offset
}

// NextOffset is the base offset the next pushed source will receive.
func (m *SourceMap) NextOffset() uint32 {
	return m.next
}

// Len returns the number of sources.
func (m *SourceMap) Len() int {
	return len(m.sources)
}

// Sources returns the sources in insertion order.
// Не модифицируйте возвращаемый срез.
func (m *SourceMap) Sources() []*Source {
	return m.sources
}

// Entries re-extracts (name, contents) pairs in order.
func (m *SourceMap) Entries() []Entry {
	out := make([]Entry, 0, len(m.sources))
	for _, s := range m.sources {
		out = append(out, Entry{Name: s.Name, Contents: s.Contents})
	}
	return out
}

// FindByName returns the latest source registered under name.
func (m *SourceMap) FindByName(name string) (*Source, bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.sources[i], true
}

// FindByOffset returns the source whose range contains offset.
func (m *SourceMap) FindByOffset(offset uint32) (*Source, bool) {
	idx := sort.Search(len(m.sources), func(i int) bool {
		return m.sources[i].Offset > offset
	}) - 1
	if idx < 0 {
		return nil, false
	}
	src := m.sources[idx]
	if !src.Contains(offset) {
		return nil, false
	}
	return src, true
}

// Clone returns a copy that can be extended without affecting m.
// Sources themselves are immutable and shared.
func (m *SourceMap) Clone() *SourceMap {
	out := &SourceMap{
		sources: append([]*Source(nil), m.sources...),
		index:   make(map[string]int, len(m.index)),
		next:    m.next,
	}
	for k, v := range m.index {
		out.index[k] = v
	}
	return out
}

// Resolve converts a global span into positions relative to its source.
func (m *SourceMap) Resolve(span Span, enc Encoding) (src *Source, start, end Position, ok bool) {
	src, ok = m.FindByOffset(span.Lo)
	if !ok {
		return nil, Position{}, Position{}, false
	}
	hi := span.Hi
	if hi < span.Lo {
		hi = span.Lo
	}
	if limit := src.Offset + src.Len(); hi > limit {
		hi = limit
	}
	start = PositionFromUTF8ByteOffset(enc, src, span.Lo-src.Offset)
	end = PositionFromUTF8ByteOffset(enc, src, hi-src.Offset)
	return src, start, end, true
}
