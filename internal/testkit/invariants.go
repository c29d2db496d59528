// Package testkit holds structural checks shared by parser, compiler and
// fuzz tests.
package testkit

import (
	"fmt"

	"qls/internal/ast"
	"qls/internal/source"
)

// CheckSpanInvariants verifies a parsed file against its source:
//  1. the file span is exactly the source span
//  2. every node span is well formed and lies inside the file span
//  3. node ids are valid and unique
func CheckSpanInvariants(f *ast.File, src *source.Source) error {
	if f == nil || src == nil {
		return fmt.Errorf("nil file or source")
	}
	if f.Span != src.Span() {
		return fmt.Errorf("%s: file span %v does not match source span %v", src.Name, f.Span, src.Span())
	}
	seen := make(map[ast.NodeID]struct{})
	var err error
	ast.Inspect(f, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		id, span := n.NodeID(), n.NodeSpan()
		switch {
		case !id.IsValid():
			err = fmt.Errorf("%s: %T at %v has no id", src.Name, n, span)
		case span.Hi < span.Lo:
			err = fmt.Errorf("%s: %T #%d has inverted span %v", src.Name, n, id, span)
		case span.Lo < f.Span.Lo || span.Hi > f.Span.Hi:
			err = fmt.Errorf("%s: %T #%d span %v escapes file %v", src.Name, n, id, span, f.Span)
		}
		if _, dup := seen[id]; dup && err == nil {
			err = fmt.Errorf("%s: node id %d used twice", src.Name, id)
		}
		seen[id] = struct{}{}
		return true
	})
	return err
}

// CheckPackage runs CheckSpanInvariants for every file of pkg, matching
// files to sources by name, and checks ids are unique across files.
func CheckPackage(pkg *ast.Package, sources *source.SourceMap) error {
	ids := make(map[ast.NodeID]string)
	for _, f := range pkg.Files {
		src, ok := sources.FindByName(f.Name)
		if !ok {
			return fmt.Errorf("file %q has no source", f.Name)
		}
		if err := CheckSpanInvariants(f, src); err != nil {
			return err
		}
		var dup error
		ast.Inspect(f, func(n ast.Node) bool {
			if prev, ok := ids[n.NodeID()]; ok && dup == nil {
				dup = fmt.Errorf("node id %d used in %s and %s", n.NodeID(), prev, f.Name)
			}
			ids[n.NodeID()] = f.Name
			return dup == nil
		})
		if dup != nil {
			return dup
		}
	}
	return nil
}
