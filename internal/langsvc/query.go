package langsvc

import (
	"fmt"
	"strings"

	"qls/internal/ast"
	"qls/internal/diag"
	"qls/internal/hir"
	"qls/internal/source"
)

// Location is a range in some package's sources. For library items Source
// is the library file name.
type Location struct {
	Package hir.PackageID
	Source  string
	Span    source.Span // package offsets
	Start   source.Position
	End     source.Position
}

type HoverInfo struct {
	Contents string
	Span     source.Span // the hovered reference, package offsets
}

// reference is the innermost resolved name under an offset.
type reference struct {
	id   ast.NodeID
	span source.Span
	res  hir.Res
}

func (c *Compilation) referenceAt(offset uint32) (reference, bool) {
	names := c.UserUnit().AST.Names
	var best reference
	found := false
	visit := func(id ast.NodeID, span source.Span) {
		res, ok := names[id]
		if !ok || !span.Contains(offset) {
			return
		}
		if !found || span.Len() < best.span.Len() {
			best, found = reference{id: id, span: span, res: res}, true
		}
	}
	for _, f := range c.UserUnit().AST.Package.Files {
		ast.Inspect(f, func(n ast.Node) bool {
			if !n.NodeSpan().Contains(offset) {
				return false
			}
			switch n := n.(type) {
			case *ast.Path:
				visit(n.ID, n.Span)
				return false
			case *ast.Ident:
				visit(n.ID, n.Span)
			case *ast.TypeRef:
				visit(n.ID, n.Span)
			}
			return true
		})
	}
	return best, found
}

func (c *Compilation) location(pkg hir.PackageID, span source.Span, enc source.Encoding) (Location, bool) {
	unit, ok := c.PackageStore.Get(pkg)
	if !ok {
		return Location{}, false
	}
	src, ok := unit.Sources.FindByOffset(span.Lo)
	if !ok {
		return Location{}, false
	}
	return Location{
		Package: pkg,
		Source:  src.Name,
		Span:    span,
		Start:   source.PositionFromUTF8ByteOffset(enc, src, span.Lo-src.Offset),
		End:     source.PositionFromUTF8ByteOffset(enc, src, span.Hi-src.Offset),
	}, true
}

// bindingSpan finds the declaring identifier of a local in user code.
func (c *Compilation) bindingSpan(id ast.NodeID) (source.Span, bool) {
	var span source.Span
	found := false
	for _, f := range c.UserUnit().AST.Package.Files {
		ast.Inspect(f, func(n ast.Node) bool {
			if found {
				return false
			}
			if ident, ok := n.(*ast.Ident); ok && ident.ID == id {
				span, found = ident.Span, true
			}
			return true
		})
	}
	return span, found
}

// Definition returns where the name at pos in doc is declared. Items in
// library packages resolve into the library sources.
func (c *Compilation) Definition(doc string, pos source.Position, enc source.Encoding) (Location, bool) {
	ref, ok := c.referenceAt(c.SourcePositionToPackageOffset(doc, pos, enc))
	if !ok {
		return Location{}, false
	}
	switch ref.res.Kind {
	case hir.ResItem:
		item, abs := c.ResolveItemRes(c.UserPackageID, ref.res)
		return c.location(abs.Package, item.Decl.Name.Span, enc)
	case hir.ResLocal:
		span, ok := c.bindingSpan(ref.res.Local)
		if !ok {
			return Location{}, false
		}
		return c.location(c.UserPackageID, span, enc)
	}
	return Location{}, false
}

// Hover describes the name at pos in doc.
func (c *Compilation) Hover(doc string, pos source.Position, enc source.Encoding) (HoverInfo, bool) {
	ref, ok := c.referenceAt(c.SourcePositionToPackageOffset(doc, pos, enc))
	if !ok {
		return HoverInfo{}, false
	}
	var contents string
	switch ref.res.Kind {
	case hir.ResItem:
		item, _ := c.ResolveItemRes(c.UserPackageID, ref.res)
		contents = signature(item)
	case hir.ResLocal:
		ty, ok := c.GetTy(ref.res.Local)
		if !ok {
			return HoverInfo{}, false
		}
		name := "_"
		if span, ok := c.bindingSpan(ref.res.Local); ok {
			name = c.text(span)
		}
		contents = fmt.Sprintf("%s : %s", name, ty)
	case hir.ResPrimTy:
		contents = "type " + hir.PrimTy(ref.res.Prim).String()
	default:
		return HoverInfo{}, false
	}
	return HoverInfo{Contents: contents, Span: ref.span}, true
}

func (c *Compilation) text(span source.Span) string {
	src, ok := c.UserUnit().Sources.FindByOffset(span.Lo)
	if !ok || span.Hi > src.Offset+src.Len() {
		return ""
	}
	return src.Contents[span.Lo-src.Offset : span.Hi-src.Offset]
}

// signature renders e.g. "Microsoft.Quantum.Math\nfunction AbsI(a : Int) : Int".
func signature(item *hir.Item) string {
	d := item.Decl
	params := make([]string, len(d.Params))
	for i, p := range d.Params {
		params[i] = fmt.Sprintf("%s : %s", p.Name, p.Ty)
	}
	sig := fmt.Sprintf("%s %s(%s) : %s", d.Kind, item.Name, strings.Join(params, ", "), d.Output)
	if item.Namespace == "" {
		return sig
	}
	return item.Namespace + "\n" + sig
}

// DiagnosticsByDocument groups the session's diagnostics by source name.
// Diagnostics without a source are listed under "".
func DiagnosticsByDocument(c *Compilation) map[string][]diag.Diagnostic {
	out := make(map[string][]diag.Diagnostic)
	for _, d := range c.Errors {
		out[d.Source] = append(out[d.Source], d)
	}
	return out
}
