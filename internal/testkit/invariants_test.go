package testkit

import (
	"strings"
	"testing"

	"qls/internal/ast"
	"qls/internal/source"
	"qls/internal/syntax"
)

func parseAll(t *testing.T, entries ...source.Entry) (*ast.Package, *source.SourceMap) {
	t.Helper()
	sm := source.NewSourceMap(entries...)
	ids := &ast.IDGen{}
	pkg := &ast.Package{}
	for _, src := range sm.Sources() {
		f, diags := syntax.ParseFile(src, ids)
		if len(diags) != 0 {
			t.Fatalf("%s: unexpected diagnostics %v", src.Name, diags)
		}
		pkg.Files = append(pkg.Files, f)
	}
	return pkg, sm
}

func TestParsedPackageHoldsInvariants(t *testing.T) {
	pkg, sm := parseAll(t,
		source.Entry{Name: "a.qs", Contents: "namespace A {\n    function F(x : Int) : Int { if x > 0 { return x; } else { return 0 - x; } }\n}"},
		source.Entry{Name: "b.qs", Contents: "namespace B {\n    open A;\n    operation Main() : Unit { mutable n = 0; while n < 3 { set n = n + 1; } }\n}"},
	)
	if err := CheckPackage(pkg, sm); err != nil {
		t.Fatal(err)
	}
}

func TestDetectsEscapingSpan(t *testing.T) {
	pkg, sm := parseAll(t, source.Entry{Name: "a.qs", Contents: "function F() : Int { 1 }"})
	f := pkg.Files[0]
	f.Items[0].Name.Span = source.Span{Lo: 0, Hi: 1000}

	err := CheckSpanInvariants(f, sm.Sources()[0])
	if err == nil || !strings.Contains(err.Error(), "escapes file") {
		t.Fatalf("expected escape error, got %v", err)
	}
}

func TestDetectsDuplicateIDs(t *testing.T) {
	pkg, sm := parseAll(t,
		source.Entry{Name: "a.qs", Contents: "function F() : Int { 1 }"},
		source.Entry{Name: "b.qs", Contents: "function G() : Int { 2 }"},
	)
	pkg.Files[1].Items[0].ID = pkg.Files[0].Items[0].ID
	if err := CheckPackage(pkg, sm); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestMissingSource(t *testing.T) {
	pkg, _ := parseAll(t, source.Entry{Name: "a.qs", Contents: "function F() : Int { 1 }"})
	if err := CheckPackage(pkg, source.NewSourceMap()); err == nil {
		t.Fatal("expected error for file without source")
	}
}
