package langsvc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"qls/internal/frontend"
	"qls/internal/hir"
	"qls/internal/source"
	"qls/internal/target"
	"qls/internal/trace"
)

func twoDocs(t *testing.T) *Compilation {
	t.Helper()
	c := New([]source.Entry{
		{Name: "a.qs", Contents: "namespace A {\n    function F() : Int { 1 }\n}"},
		{Name: "b.qs", Contents: "namespace B {\n    function G() : Int { A.F() + Microsoft.Quantum.Math.MaxI(1, 2) }\n}"},
	}, Config{PackageType: frontend.PackageTypeLib, Profile: target.Unrestricted})
	require.Empty(t, c.Errors)
	return c
}

func TestPositionMapping(t *testing.T) {
	c := twoDocs(t)
	for _, name := range []string{"a.qs", "b.qs"} {
		span := c.PackageSpanOfSource(name)
		for _, pos := range []source.Position{{Line: 0, Column: 0}, {Line: 1, Column: 4}, {Line: 2, Column: 1}, {Line: 1, Column: 1000}, {Line: 50, Column: 0}} {
			for _, enc := range []source.Encoding{source.EncodingUTF8, source.EncodingUTF16} {
				off := c.SourcePositionToPackageOffset(name, pos, enc)
				require.True(t, span.Contains(off), "%s %s -> %d outside %s", name, pos, off, span)
			}
		}
	}

	b := c.PackageSpanOfSource("b.qs")
	a := c.PackageSpanOfSource("a.qs")
	require.Greater(t, b.Lo, a.Hi)
	require.Equal(t, b.Hi, c.SourcePositionToPackageOffset("b.qs", source.Position{Line: 99, Column: 3}, source.EncodingUTF16))
	require.Equal(t, a.Lo+18, c.SourcePositionToPackageOffset("a.qs", source.Position{Line: 1, Column: 4}, source.EncodingUTF8))
}

func TestPositionMappingUTF16(t *testing.T) {
	c := New(one("u.qs", "// 😀x\nfunction F() : Int { 1 }"), Config{PackageType: frontend.PackageTypeLib, Profile: target.Unrestricted})
	base := c.PackageSpanOfSource("u.qs").Lo
	// the emoji is two UTF-16 units and four bytes
	require.Equal(t, base+7, c.SourcePositionToPackageOffset("u.qs", source.Position{Line: 0, Column: 5}, source.EncodingUTF16))
	require.Equal(t, base+5, c.SourcePositionToPackageOffset("u.qs", source.Position{Line: 0, Column: 5}, source.EncodingUTF8))

	name, pos, ok := c.PackageOffsetToSourcePosition(base+7, source.EncodingUTF16)
	require.True(t, ok)
	require.Equal(t, "u.qs", name)
	require.Equal(t, source.Position{Line: 0, Column: 5}, pos)
}

func TestPositionPastEndIsTraced(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	c := New(one("a.qs", "function F() : Int { 1 }"), Config{PackageType: frontend.PackageTypeLib, Profile: target.Unrestricted, Tracer: ring})
	end := c.PackageSpanOfSource("a.qs").Hi
	require.Equal(t, end, c.SourcePositionToPackageOffset("a.qs", source.Position{Line: 7, Column: 0}, source.EncodingUTF8))

	var clamped bool
	for _, ev := range ring.Snapshot() {
		if ev.Name == "position" && strings.Contains(ev.Detail, "using end offset instead") {
			clamped = true
		}
	}
	require.True(t, clamped)
}

func TestUnknownDocumentPanics(t *testing.T) {
	c := twoDocs(t)
	require.Panics(t, func() {
		c.SourcePositionToPackageOffset("nope.qs", source.Position{}, source.EncodingUTF8)
	})
	require.Panics(t, func() { c.PackageSpanOfSource("nope.qs") })
}

func TestResolveAbsoluteMatchesRelative(t *testing.T) {
	c := twoDocs(t)
	for i := range c.UserUnit().Package.Items {
		rel := hir.ItemID{Item: hir.LocalItemID(i)}
		abs := hir.ItemID{Package: c.UserPackageID, Item: hir.LocalItemID(i)}

		want, wantPkg, wantID := c.ResolveItem(c.UserPackageID, rel)
		for _, origin := range c.PackageStore.IDs() {
			got, gotPkg, gotID := c.ResolveItem(origin, abs)
			require.Same(t, want, got)
			require.Same(t, wantPkg, gotPkg)
			require.Equal(t, wantID, gotID)
		}
	}
}

func TestResolveLibraryItem(t *testing.T) {
	c := twoDocs(t)
	var libRefs []hir.Res
	for _, res := range c.UserUnit().AST.Names {
		if res.Kind == hir.ResItem && !res.Item.IsLocal() {
			libRefs = append(libRefs, res)
		}
	}
	require.Len(t, libRefs, 1)

	item, id := c.ResolveItemRes(c.UserPackageID, libRefs[0])
	require.Equal(t, "MaxI", item.Name)
	require.Equal(t, "Microsoft.Quantum.Math", item.Namespace)
	require.Equal(t, hir.PackageID(2), id.Package)

	// a local reference found inside std means std, not the user package
	local := hir.ItemID{Item: id.Item}
	std, _, stdID := c.ResolveItem(2, local)
	require.Same(t, item, std)
	require.Equal(t, id, stdID)
}

func TestResolverPanicsOnInvariantViolations(t *testing.T) {
	c := twoDocs(t)
	require.Panics(t, func() { c.ResolveItem(c.UserPackageID, hir.ItemID{Package: 9}) })
	require.Panics(t, func() { c.ResolveItem(c.UserPackageID, hir.ItemID{Item: 999}) })
	require.Panics(t, func() { c.ResolveItemRes(c.UserPackageID, hir.LocalRes(1)) })
}

func TestGetTyAndRes(t *testing.T) {
	c := New(one("a.qs", "function F(x : Int) : Int { x + 1 }"), Config{PackageType: frontend.PackageTypeLib, Profile: target.Unrestricted})
	require.Empty(t, c.Errors)
	unit := c.UserUnit()
	param := unit.Package.Items[0].Decl.Params[0]
	ty, ok := c.GetTy(param.ID)
	require.True(t, ok)
	require.Equal(t, hir.Int, ty)
	res, ok := c.GetRes(param.ID)
	require.True(t, ok)
	require.Equal(t, hir.LocalRes(param.ID), res)

	_, ok = c.GetTy(1 << 30)
	require.False(t, ok)
}

func TestDefinitionIntoStd(t *testing.T) {
	c := twoDocs(t)
	// "MaxI" in b.qs line 1
	col := uint32(strings.Index("    function G() : Int { A.F() + Microsoft.Quantum.Math.MaxI(1, 2) }", "MaxI"))
	loc, ok := c.Definition("b.qs", source.Position{Line: 1, Column: col + 1}, source.EncodingUTF16)
	require.True(t, ok)
	require.Equal(t, hir.PackageID(2), loc.Package)
	require.Equal(t, "qsharp-library-source:std/math.qs", loc.Source)

	std, _ := c.PackageStore.Get(2)
	src, ok := std.Sources.FindByName(loc.Source)
	require.True(t, ok)
	require.True(t, src.Span().Contains(loc.Span.Lo))
	require.Equal(t, "MaxI", src.Contents[loc.Span.Lo-src.Offset:loc.Span.Hi-src.Offset])

	hover, ok := c.Hover("b.qs", source.Position{Line: 1, Column: col + 1}, source.EncodingUTF16)
	require.True(t, ok)
	require.Equal(t, "Microsoft.Quantum.Math\nfunction MaxI(a : Int, b : Int) : Int", hover.Contents)
}

func TestDefinitionAcrossUserDocs(t *testing.T) {
	c := twoDocs(t)
	col := uint32(strings.Index("    function G() : Int { A.F() + Microsoft.Quantum.Math.MaxI(1, 2) }", "A.F"))
	loc, ok := c.Definition("b.qs", source.Position{Line: 1, Column: col + 2}, source.EncodingUTF8)
	require.True(t, ok)
	require.Equal(t, c.UserPackageID, loc.Package)
	require.Equal(t, "a.qs", loc.Source)
	require.Equal(t, source.Position{Line: 1, Column: 13}, loc.Start)
}

func TestHoverLocal(t *testing.T) {
	c := New(one("a.qs", "function F(count : Int) : Int { count * 2 }"), Config{PackageType: frontend.PackageTypeLib, Profile: target.Unrestricted})
	col := uint32(strings.LastIndex("function F(count : Int) : Int { count * 2 }", "count"))
	hover, ok := c.Hover("a.qs", source.Position{Column: col}, source.EncodingUTF8)
	require.True(t, ok)
	require.Equal(t, "count : Int", hover.Contents)

	loc, ok := c.Definition("a.qs", source.Position{Column: col}, source.EncodingUTF8)
	require.True(t, ok)
	require.Equal(t, source.Position{Column: 11}, loc.Start)

	_, ok = c.Hover("a.qs", source.Position{Column: 0}, source.EncodingUTF8)
	require.False(t, ok)
}

func TestDiagnosticsByDocument(t *testing.T) {
	c := New([]source.Entry{
		{Name: "a.qs", Contents: "function F() : Int { nope }"},
		{Name: "b.qs", Contents: "function G() : Int { 1 }"},
	}, Config{PackageType: frontend.PackageTypeLib, Profile: target.Unrestricted})
	byDoc := DiagnosticsByDocument(c)
	require.Len(t, byDoc["a.qs"], 1)
	require.Empty(t, byDoc["b.qs"])
}
