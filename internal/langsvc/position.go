package langsvc

import (
	"fmt"

	"qls/internal/source"
	"qls/internal/trace"
)

func (c *Compilation) userSource(name string) *source.Source {
	src, ok := c.UserUnit().Sources.FindByName(name)
	if !ok {
		panic(fmt.Errorf("source %q not found in the user source map", name))
	}
	return src
}

// SourcePositionToPackageOffset maps an editor position in the named user
// document to a package offset. Positions past the end of the document
// come from an editor whose view is out of sync; they map to the end of
// the document rather than into the next one. An unknown name panics.
func (c *Compilation) SourcePositionToPackageOffset(name string, pos source.Position, enc source.Encoding) uint32 {
	src := c.userSource(name)
	offset := pos.ToUTF8ByteOffset(enc, src)
	if int(pos.Line) > len(src.LineIdx) || offset > src.Len() {
		trace.Pointf(c.tracer, trace.ScopeNode, "position", 0,
			"offset for %s out of bounds for %s, using end offset instead", pos, src.Name)
		offset = min(offset, src.Len())
	}
	return src.Offset + offset
}

// PackageSpanOfSource is the package span of the whole named document.
func (c *Compilation) PackageSpanOfSource(name string) source.Span {
	return c.userSource(name).Span()
}

// PackageOffsetToSourcePosition is the inverse of
// SourcePositionToPackageOffset for offsets inside a user document.
func (c *Compilation) PackageOffsetToSourcePosition(offset uint32, enc source.Encoding) (string, source.Position, bool) {
	src, ok := c.UserUnit().Sources.FindByOffset(offset)
	if !ok {
		return "", source.Position{}, false
	}
	return src.Name, source.PositionFromUTF8ByteOffset(enc, src, offset-src.Offset), true
}
