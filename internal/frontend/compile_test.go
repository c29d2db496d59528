package frontend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"qls/internal/ast"
	"qls/internal/diag"
	"qls/internal/hir"
	"qls/internal/source"
	"qls/internal/target"
)

func compileOne(t *testing.T, text string, pkgType PackageType, caps target.Capabilities, features LanguageFeatures) (*PackageStore, *CompileUnit, []diag.Diagnostic) {
	t.Helper()
	store, stdID := NewStore(caps)
	sm := source.NewSourceMap(source.Entry{Name: "main.qs", Contents: text})
	unit, errs := Compile(store, []hir.PackageID{stdID}, sm, pkgType, caps, features)
	return store, unit, errs
}

func codes(ds []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}
	return out
}

func TestNewStoreSeedsLibraries(t *testing.T) {
	store, stdID := NewStore(target.CapsAll)
	require.Equal(t, 2, store.Len())
	require.Equal(t, hir.PackageID(1), store.Core())
	require.Equal(t, hir.PackageID(2), stdID)
	require.Equal(t, []hir.PackageID{1, 2}, store.IDs())

	std, ok := store.Get(stdID)
	require.True(t, ok)
	require.Empty(t, std.Errors)
	require.Equal(t, []hir.PackageID{1}, std.Dependencies)

	g := store.Globals([]hir.PackageID{1, 2})
	id, ok := g.Lookup("Microsoft.Quantum.Math", "AbsI")
	require.True(t, ok)
	require.Equal(t, stdID, id.Package)

	_, ok = store.Get(3)
	require.False(t, ok)
	_, ok = store.Get(hir.NoPackageID)
	require.False(t, ok)
}

func TestNewStoreBuildsLibrariesForEveryProfile(t *testing.T) {
	for _, profile := range []target.Profile{target.Unrestricted, target.Base, target.AdaptiveRI, target.AdaptiveRIF} {
		t.Run(profile.String(), func(t *testing.T) {
			var store *PackageStore
			var stdID hir.PackageID
			require.NotPanics(t, func() { store, stdID = NewStore(profile.Capabilities()) })
			for _, id := range []hir.PackageID{store.Core(), stdID} {
				unit, ok := store.Get(id)
				require.True(t, ok)
				require.Empty(t, unit.Errors)
			}

			g := store.Globals([]hir.PackageID{store.Core(), stdID})
			_, ok := g.Lookup("Microsoft.Quantum.Math", "AbsI")
			require.True(t, ok)
		})
	}
}

func TestStoreIDsFollowInsertion(t *testing.T) {
	store := NewPackageStore()
	require.Empty(t, store.IDs())
	for want := hir.PackageID(1); want <= 3; want++ {
		require.Equal(t, want, store.Insert(&CompileUnit{}))
	}
	require.Equal(t, []hir.PackageID{1, 2, 3}, store.IDs())
}

func TestLibraryIntrinsicsParseAsIntrinsic(t *testing.T) {
	store, stdID := NewStore(target.CapsAll)
	g := store.Globals([]hir.PackageID{store.Core(), stdID})
	id, ok := g.Lookup("Microsoft.Quantum.Math", "AbsI")
	require.True(t, ok)
	unit, ok := store.Get(id.Package)
	require.True(t, ok)
	item, ok := unit.Package.Item(id.Item)
	require.True(t, ok)
	require.NotNil(t, item.Decl)
	require.True(t, item.Decl.Intrinsic)
}

func TestCompileResolvesAcrossPackages(t *testing.T) {
	text := `namespace Demo {
    open Microsoft.Quantum.Math;

    function Helper(a : Int) : Int {
        return AbsI(a);
    }

    @EntryPoint()
    operation Main() : Int {
        Message("hi");
        return Helper(-3) + Microsoft.Quantum.Math.MaxI(1, 2);
    }
}`
	store, unit, errs := compileOne(t, text, PackageTypeExe, target.CapsAll, 0)
	require.Empty(t, errs)
	require.Len(t, unit.Package.Items, 2)
	require.Equal(t, []hir.PackageID{1, 2}, unit.Dependencies)

	var itemRefs []hir.ItemID
	for _, f := range unit.AST.Package.Files {
		ast.Inspect(f, func(n ast.Node) bool {
			if p, ok := n.(*ast.Path); ok {
				if res, ok := unit.AST.Names[p.ID]; ok && res.Kind == hir.ResItem {
					itemRefs = append(itemRefs, res.Item)
				}
			}
			return true
		})
	}
	// AbsI, Message, Helper, MaxI in source order
	require.Len(t, itemRefs, 4)
	require.Equal(t, hir.PackageID(2), itemRefs[0].Package)
	require.Equal(t, hir.PackageID(1), itemRefs[1].Package)
	require.True(t, itemRefs[2].IsLocal())
	require.Equal(t, hir.LocalItemID(0), itemRefs[2].Item)

	absI, ok := store.Item(itemRefs[0])
	require.True(t, ok)
	require.Equal(t, "Microsoft.Quantum.Math.AbsI", absI.FullName())
}

func TestCompileDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		pkgType  PackageType
		caps     target.Capabilities
		features LanguageFeatures
		want     []diag.Code
	}{
		{
			name:    "library needs no entry point",
			text:    `namespace A { function F() : Unit {} }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
		},
		{
			name: "missing entry point",
			text: `namespace A { function F() : Unit {} }`,
			caps: target.CapsAll,
			want: []diag.Code{diag.EntMissing},
		},
		{
			name: "duplicate entry point",
			text: `namespace A { @EntryPoint() operation F() : Unit {} @EntryPoint() operation G() : Unit {} }`,
			caps: target.CapsAll,
			want: []diag.Code{diag.EntDuplicate},
		},
		{
			name:    "annotation mismatch",
			text:    `namespace A { function F() : Unit { let x : Int = 1.0; } }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.TypMismatch},
		},
		{
			name:    "callable named after a literal",
			text:    `namespace A { function One() : Int { 1 } }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.ResReservedName},
		},
		{
			name:    "parameter and local named after literals",
			text:    `namespace A { function F(Zero : Int) : Unit { let true = 1; } }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.ResReservedName, diag.ResReservedName},
		},
		{
			name:    "unknown name",
			text:    `namespace A { function F() : Int { return y; } }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.ResNotFound},
		},
		{
			name:    "unknown namespace",
			text:    `namespace A { function F() : Int { return Nope.G(); } }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.ResNamespaceNotFound},
		},
		{
			name:    "missing return",
			text:    `namespace A { function F(b : Bool) : Int { if b { return 1; } } }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.TypMissingReturn},
		},
		{
			name:    "if else returns on every path",
			text:    `namespace A { function F(b : Bool) : Int { if b { return 1; } else { return 2; } } }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
		},
		{
			name:    "operation from function",
			text:    `namespace A { open Microsoft.Quantum.Intrinsic; function F(q : Qubit) : Unit { X(q); } }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.TypOpInFunction},
		},
		{
			name:    "qubit in function",
			text:    `namespace A { function F() : Unit { use q = Qubit(); } }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.TypUseInFunction},
		},
		{
			name:    "immutable update",
			text:    `namespace A { function F() : Unit { let x = 1; set x = 2; } }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.TypImmutable},
		},
		{
			name:     "set is deprecated with preview syntax",
			text:     `namespace A { function F() : Unit { mutable x = 1; set x = 2; } }`,
			pkgType:  PackageTypeLib,
			caps:     target.CapsAll,
			features: FeatureV2PreviewSyntax,
			want:     []diag.Code{diag.SynDeprecatedSet},
		},
		{
			name:    "bare assignment needs preview syntax",
			text:    `namespace A { function F() : Unit { mutable x = 1; x = 2; } }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.SynBareAssignment},
		},
		{
			name:     "bare assignment with preview syntax",
			text:     `namespace A { function F() : Unit { mutable x = 1; x = 2; } }`,
			pkgType:  PackageTypeLib,
			caps:     target.CapsAll,
			features: FeatureV2PreviewSyntax,
		},
		{
			name:    "top level statement",
			text:    `let x = 1;`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.SynTopLevelStmt},
		},
		{
			name:    "duplicate callable",
			text:    `namespace A { function F() : Unit {} function F() : Unit {} }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.ResDuplicate},
		},
		{
			name:    "invalid operands",
			text:    `namespace A { function F() : Unit { let x = 1 + 1.0; } }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.TypInvalidOperands},
		},
		{
			name:    "wrong arity",
			text:    `namespace A { function F() : Int { return Microsoft.Quantum.Math.AbsI(1, 2); } }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.TypArity},
		},
		{
			name:    "callable is not a value",
			text:    `namespace A { function G() : Unit {} function F() : Unit { let g = G; } }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.TypNotValue},
		},
		{
			name:    "unknown attribute",
			text:    `namespace A { @Inline() function F() : Unit {} }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.ResUnknownAttr},
		},
		{
			name:    "syntax error",
			text:    `namespace A { function }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
			want:    []diag.Code{diag.SynUnexpectedToken},
		},
		{
			name:    "result comparison under base",
			text:    `namespace A { operation F(q : Qubit) : Bool { return Microsoft.Quantum.Intrinsic.M(q) == One; } }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsNone,
			want:    []diag.Code{diag.BaseResultComparison},
		},
		{
			name:    "result comparison under adaptive",
			text:    `namespace A { operation F(q : Qubit) : Bool { return Microsoft.Quantum.Intrinsic.M(q) == One; } }`,
			pkgType: PackageTypeLib,
			caps:    target.AdaptiveRI.Capabilities(),
		},
		{
			name:    "config item dropped under adaptive",
			text:    `namespace A { operation F() : Unit { Microsoft.Quantum.Diagnostics.DumpMachine(); } }`,
			pkgType: PackageTypeLib,
			caps:    target.AdaptiveRI.Capabilities(),
			want:    []diag.Code{diag.ResNotFound},
		},
		{
			name:    "config item kept when unrestricted",
			text:    `namespace A { operation F() : Unit { Microsoft.Quantum.Diagnostics.DumpMachine(); } }`,
			pkgType: PackageTypeLib,
			caps:    target.CapsAll,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, unit, errs := compileOne(t, tt.text, tt.pkgType, tt.caps, tt.features)
			require.Equal(t, tt.want, nilIfEmpty(codes(errs)))
			require.Equal(t, errs, unit.Errors)
			for _, d := range errs {
				require.Equal(t, "main.qs", d.Source, "diagnostic %v", d)
				require.Equal(t, diag.KindFrontend, d.Kind)
			}
		})
	}
}

func nilIfEmpty(cs []diag.Code) []diag.Code {
	if len(cs) == 0 {
		return nil
	}
	return cs
}

func TestCompileRecordsTypes(t *testing.T) {
	text := `namespace A { function F() : Double { let x = 2.0; return x * 3.0; } }`
	_, unit, errs := compileOne(t, text, PackageTypeLib, target.CapsAll, 0)
	require.Empty(t, errs)

	var binary *ast.Expr
	ast.Inspect(unit.AST.Package.Files[0], func(n ast.Node) bool {
		if e, ok := n.(*ast.Expr); ok && e.Kind == ast.ExprBinary {
			binary = e
		}
		return true
	})
	require.NotNil(t, binary)
	require.Equal(t, hir.Double, unit.AST.Tys[binary.ID])

	res := unit.AST.Names[binary.Lhs.Path.ID]
	require.Equal(t, hir.ResLocal, res.Kind)
	require.Equal(t, hir.Double, unit.AST.Tys[res.Local])
}

func TestParseLanguageFeatures(t *testing.T) {
	f, unknown := ParseLanguageFeatures([]string{"v2-preview-syntax", "bogus"})
	require.True(t, f.Has(FeatureV2PreviewSyntax))
	require.Equal(t, []string{"bogus"}, unknown)
	require.Equal(t, "v2-preview-syntax", f.String())
	require.Equal(t, "none", LanguageFeatures(0).String())
}

func TestParsePackageType(t *testing.T) {
	pt, err := ParsePackageType("lib")
	require.NoError(t, err)
	require.Equal(t, PackageTypeLib, pt)
	_, err = ParsePackageType("dll")
	require.Error(t, err)
}
