// Package incremental compiles notebook cells one at a time against a
// growing user package. Each cell sees every item and top-level binding of
// the cells before it, and may redefine items they declared.
package incremental

import (
	"fmt"
	"maps"

	"qls/internal/ast"
	"qls/internal/diag"
	"qls/internal/frontend"
	"qls/internal/hir"
	"qls/internal/source"
	"qls/internal/syntax"
	"qls/internal/target"
)

// Compiler owns a store seeded with the libraries and the user unit that
// is not yet in it.
type Compiler struct {
	store    *frontend.PackageStore
	unit     *frontend.CompileUnit
	globals  *frontend.Globals
	top      *frontend.Scope
	ids      *ast.IDGen
	pkgType  frontend.PackageType
	caps     target.Capabilities
	features frontend.LanguageFeatures
}

// Increment is the result of compiling one fragment. Nothing in the
// Compiler changes until it is passed to Update.
type Increment struct {
	Source source.Span
	Files  []*ast.File
	Errors []diag.Diagnostic

	pkg     *hir.Package
	names   map[ast.NodeID]hir.Res
	tys     map[ast.NodeID]hir.Ty
	globals *frontend.Globals
	top     *frontend.Scope
	lastID  ast.NodeID
}

// New seeds a store for caps and compiles sources as the initial contents
// of the user package. Any diagnostic in sources fails construction.
func New(sources []source.Entry, pkgType frontend.PackageType, caps target.Capabilities, features frontend.LanguageFeatures) (*Compiler, error) {
	store, stdID := frontend.NewStore(caps)
	deps := []hir.PackageID{store.Core(), stdID}
	c := &Compiler{
		store:    store,
		unit:     frontend.NewCompileUnit(source.NewSourceMap(), deps),
		globals:  store.Globals(deps),
		top:      frontend.NewScope(),
		ids:      &ast.IDGen{},
		pkgType:  pkgType,
		caps:     caps,
		features: features,
	}
	for _, e := range sources {
		inc := c.compile(e.Name, e.Contents, false)
		if len(inc.Errors) > 0 {
			return nil, fmt.Errorf("compiling %s: %s", e.Name, inc.Errors[0].Message)
		}
		c.Update(inc)
	}
	return c, nil
}

// CompileFragments compiles text as the next fragment. Its diagnostics,
// possibly empty, are handed to acc; when acc returns an error compilation
// of the fragment stops and that error is returned. The fragment's source
// is added to the unit either way so its spans stay mappable.
func (c *Compiler) CompileFragments(name, text string, acc func([]diag.Diagnostic) error) (Increment, error) {
	inc := c.compile(name, text, true)
	if acc != nil {
		if err := acc(inc.Errors); err != nil {
			return Increment{Source: inc.Source, Errors: inc.Errors}, err
		}
	}
	return inc, nil
}

// compile checks a fragment against copies of the accumulated state.
func (c *Compiler) compile(name, text string, fragment bool) Increment {
	sources := c.unit.Sources
	base := sources.Push(name, text)
	src, _ := sources.FindByOffset(base)

	ids := ast.NewIDGen(c.ids.Last())
	file, errs := syntax.ParseFile(src, ids)

	inc := Increment{
		Source:  src.Span(),
		Files:   []*ast.File{file},
		pkg:     c.unit.Package.Clone(),
		names:   make(map[ast.NodeID]hir.Res),
		tys:     make(map[ast.NodeID]hir.Ty),
		globals: c.globals.Clone(),
		top:     c.top.Clone(),
	}
	chk := frontend.NewChecker(frontend.CheckerConfig{
		Store:    c.store,
		Globals:  inc.globals,
		Package:  inc.pkg,
		Names:    inc.names,
		Tys:      inc.tys,
		Top:      inc.top,
		Caps:     c.caps,
		Features: c.features,
		Fragment: fragment,
	})
	before, stmts := len(inc.pkg.Items), len(inc.pkg.Stmts)
	chk.CheckFiles(inc.Files)
	errs = append(errs, chk.Diagnostics()...)
	if c.caps == target.CapsNone {
		errs = append(errs, frontend.CheckBaseProfile(inc.pkg.Items[before:], inc.pkg.Stmts[stmts:])...)
	}
	for i := range errs {
		errs[i] = errs[i].WithSource(sources)
	}
	inc.Errors = errs
	inc.lastID = ids.Last()
	return inc
}

// Update folds inc into the user unit. Increments must be applied in the
// order they were compiled.
func (c *Compiler) Update(inc Increment) {
	if inc.pkg == nil {
		return
	}
	c.unit.Package = inc.pkg
	c.unit.AST.Package.Files = append(c.unit.AST.Package.Files, inc.Files...)
	maps.Copy(c.unit.AST.Names, inc.names)
	maps.Copy(c.unit.AST.Tys, inc.tys)
	c.globals = inc.globals
	c.top = inc.top
	c.ids = ast.NewIDGen(inc.lastID)
}

// Package exposes the accumulated user package, e.g. to evaluate the
// statements of the last increment.
func (c *Compiler) Package() *hir.Package {
	return c.unit.Package
}

// Sources is the user unit's source map, fragments included.
func (c *Compiler) Sources() *source.SourceMap {
	return c.unit.Sources
}

// IntoPackageStore inserts the user unit and hands over the store. The
// Compiler must not be used afterwards.
func (c *Compiler) IntoPackageStore() (*frontend.PackageStore, hir.PackageID) {
	store := c.store
	id := store.Insert(c.unit)
	c.store, c.unit = nil, nil
	return store, id
}
