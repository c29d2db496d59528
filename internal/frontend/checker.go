package frontend

import (
	"fmt"

	"qls/internal/ast"
	"qls/internal/diag"
	"qls/internal/hir"
	"qls/internal/source"
	"qls/internal/target"
)

const coreNamespace = "Microsoft.Quantum.Core"

// CheckerConfig describes the state a Checker extends.
type CheckerConfig struct {
	Store    *PackageStore
	Globals  *Globals
	Package  *hir.Package
	Names    map[ast.NodeID]hir.Res
	Tys      map[ast.NodeID]hir.Ty
	Top      *Scope // top-level bindings; persists across notebook cells
	Caps     target.Capabilities
	Features LanguageFeatures
	// Fragment allows top-level statements and lets a declaration replace an
	// item from an earlier fragment.
	Fragment bool
}

// Checker lowers syntax to HIR, resolving names and checking types as it
// goes. Items of all files are collected before any body is checked.
type Checker struct {
	cfg   CheckerConfig
	diags []diag.Diagnostic

	// names declared during this run, for duplicate detection
	declared map[string]map[string]bool

	scopes  []*Scope
	current *hir.CallableDecl // nil at top level
	ns      string
	opens   []string
}

func NewChecker(cfg CheckerConfig) *Checker {
	if cfg.Top == nil {
		cfg.Top = NewScope()
	}
	return &Checker{cfg: cfg, declared: make(map[string]map[string]bool)}
}

func (c *Checker) Diagnostics() []diag.Diagnostic {
	return c.diags
}

type pending struct {
	decl  *ast.Callable
	item  *hir.Item
	ns    string
	opens []string
}

// CheckFiles lowers the files into the configured package. New items are
// appended to Package.Items and new top-level statements to Package.Stmts.
func (c *Checker) CheckFiles(files []*ast.File) {
	var work []pending
	for _, f := range files {
		for _, ns := range f.Namespaces {
			name := ns.Name.String()
			c.cfg.Globals.DeclareNamespace(name)
			opens := make([]string, 0, len(ns.Opens))
			for _, o := range ns.Opens {
				opens = append(opens, o.String())
			}
			for _, decl := range ns.Items {
				if p, ok := c.collect(decl, name, opens); ok {
					work = append(work, p)
				}
			}
		}
		for _, decl := range f.Items {
			if p, ok := c.collect(decl, "", nil); ok {
				work = append(work, p)
			}
		}
	}
	for _, p := range work {
		c.checkCallable(p)
	}
	for _, f := range files {
		for _, st := range f.Stmts {
			if !c.cfg.Fragment {
				c.errorf(diag.SynTopLevelStmt, st.Span, "statements must appear inside a callable")
				continue
			}
			c.ns, c.opens, c.current = "", nil, nil
			c.scopes = []*Scope{c.cfg.Top}
			c.cfg.Package.Stmts = append(c.cfg.Package.Stmts, c.checkStmt(st))
		}
	}
	c.scopes = nil
}

func (c *Checker) errorf(code diag.Code, span source.Span, format string, args ...any) {
	c.diags = append(c.diags, diag.NewError(code, span, fmt.Sprintf(format, args...)))
}

func (c *Checker) pushScope() {
	c.scopes = append(c.scopes, NewScope())
}

func (c *Checker) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *Checker) declare(id *ast.Ident, ty hir.Ty, mutable bool) {
	c.checkReserved(id)
	c.scopes[len(c.scopes)-1].Declare(id.Name, Binding{ID: id.ID, Ty: ty, Mutable: mutable})
	c.cfg.Names[id.ID] = hir.LocalRes(id.ID)
	c.cfg.Tys[id.ID] = ty
}

// checkReserved rejects names the parser always reads as literals:
// such a binding could never be referenced.
func (c *Checker) checkReserved(id *ast.Ident) {
	switch id.Name {
	case "Zero", "One", "true", "false":
		c.errorf(diag.ResReservedName, id.Span, "%s is a literal and cannot be used as a name", id.Name)
	}
}

func (c *Checker) lookupLocal(name string) (Binding, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if b, ok := c.scopes[i].Lookup(name); ok {
			return b, true
		}
	}
	return Binding{}, false
}

func hirIdent(id *ast.Ident) *hir.Ident {
	return &hir.Ident{ID: id.ID, Span: id.Span, Name: id.Name}
}
