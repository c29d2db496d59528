// Package frontend compiles source text into packages: parsing, lowering
// to HIR, name resolution, type checking and the Base-profile check. It
// also owns the PackageStore and the library builders that seed it.
package frontend

import (
	"fmt"
	"sync"

	"qls/internal/ast"
	"qls/internal/diag"
	"qls/internal/hir"
	"qls/internal/library"
	"qls/internal/source"
	"qls/internal/syntax"
	"qls/internal/target"
)

type options struct {
	pkgType  PackageType
	caps     target.Capabilities
	features LanguageFeatures
	library  bool
}

// Compile compiles sources against the given dependencies. The core
// library of the store is always a dependency. User mistakes never panic;
// they are returned as diagnostics, which are also kept on the unit.
func Compile(
	store *PackageStore,
	deps []hir.PackageID,
	sources *source.SourceMap,
	pkgType PackageType,
	caps target.Capabilities,
	features LanguageFeatures,
) (*CompileUnit, []diag.Diagnostic) {
	unit := compile(store, deps, sources, options{pkgType: pkgType, caps: caps, features: features})
	return unit, unit.Errors
}

func compile(store *PackageStore, deps []hir.PackageID, sources *source.SourceMap, opts options) *CompileUnit {
	deps = withCore(store.Core(), deps)
	unit := NewCompileUnit(sources, deps)

	var errs []diag.Diagnostic
	ids := &ast.IDGen{}
	for _, src := range sources.Sources() {
		f, ds := syntax.ParseFile(src, ids)
		unit.AST.Package.Files = append(unit.AST.Package.Files, f)
		errs = append(errs, ds...)
	}

	chk := NewChecker(CheckerConfig{
		Store:    store,
		Globals:  store.Globals(deps),
		Package:  unit.Package,
		Names:    unit.AST.Names,
		Tys:      unit.AST.Tys,
		Caps:     opts.caps,
		Features: opts.features,
	})
	chk.CheckFiles(unit.AST.Package.Files)
	errs = append(errs, chk.Diagnostics()...)

	if !opts.library {
		if opts.caps == target.CapsNone {
			errs = append(errs, CheckBaseProfile(unit.Package.Items, unit.Package.Stmts)...)
		}
		if opts.pkgType == PackageTypeExe {
			errs = append(errs, checkEntryPoint(unit.Package)...)
		}
	}
	for i := range errs {
		errs[i] = errs[i].WithSource(sources)
	}
	unit.Errors = errs
	return unit
}

// Core builds the core library. It has no dependencies.
func Core() *CompileUnit {
	return buildLibrary(NewPackageStore(), "core", library.Core(), target.CapsAll)
}

// Std builds the standard library against the core library already in
// store. Items whose @Config is not met by caps are left out.
func Std(store *PackageStore, caps target.Capabilities) *CompileUnit {
	return buildLibrary(store, "std", library.Std(), caps)
}

func buildLibrary(store *PackageStore, name string, entries []source.Entry, caps target.Capabilities) *CompileUnit {
	unit := compile(store, nil, source.NewSourceMap(entries...), options{
		pkgType: PackageTypeLib,
		caps:    caps,
		library: true,
	})
	if len(unit.Errors) > 0 {
		panic(fmt.Errorf("%s library does not compile: %v", name, unit.Errors[0]))
	}
	return unit
}

var (
	coreOnce = sync.OnceValue(Core)
	stdCache sync.Map // target.Capabilities -> *CompileUnit
)

// NewStore is the only way to build a store that backs a session: the core
// library is inserted first, then the standard library built for caps.
// Library units are shared between stores; they are never modified after
// they are built.
func NewStore(caps target.Capabilities) (*PackageStore, hir.PackageID) {
	store := NewPackageStore()
	store.core = store.Insert(coreOnce())

	std, ok := stdCache.Load(caps)
	if !ok {
		std, _ = stdCache.LoadOrStore(caps, Std(store, caps))
	}
	stdID := store.Insert(std.(*CompileUnit))
	return store, stdID
}
