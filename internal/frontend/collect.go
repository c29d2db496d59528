package frontend

import (
	"qls/internal/ast"
	"qls/internal/diag"
	"qls/internal/hir"
	"qls/internal/target"
)

// configCaps maps the argument of @Config to the capabilities it requires.
func configCaps(name string) (target.Capabilities, bool) {
	switch name {
	case "Unrestricted":
		return target.CapsAll, true
	case "Adaptive":
		return target.AdaptiveRI.Capabilities(), true
	}
	return target.ParseCapability(name)
}

// collect declares the callable's signature. Items whose @Config is not
// satisfied by the target are dropped entirely.
func (c *Checker) collect(decl *ast.Callable, ns string, opens []string) (pending, bool) {
	var (
		entry    bool
		requires target.Capabilities
	)
	for _, a := range decl.Attrs {
		switch a.Name.Name {
		case "EntryPoint":
			entry = true
		case "Config":
			if a.Arg == nil {
				c.errorf(diag.ResUnknownAttr, a.Span, "@Config expects a capability")
				continue
			}
			caps, ok := configCaps(a.Arg.Name)
			if !ok {
				c.errorf(diag.ResUnknownAttr, a.Arg.Span, "unknown capability %s", a.Arg.Name)
				continue
			}
			requires |= caps
		default:
			c.errorf(diag.ResUnknownAttr, a.Name.Span, "unknown attribute @%s", a.Name.Name)
		}
	}
	if !c.cfg.Caps.Has(requires) {
		return pending{}, false
	}

	d := &hir.CallableDecl{
		ID:         decl.ID,
		Span:       decl.Span,
		Kind:       decl.Kind,
		Name:       hirIdent(decl.Name),
		Intrinsic:  decl.Intrinsic,
		EntryPoint: entry,
		Output:     c.typeRef(decl.Output),
	}
	c.checkReserved(decl.Name)
	for _, p := range decl.Params {
		c.checkReserved(p.Name)
		ty := c.typeRef(p.Ty)
		d.Params = append(d.Params, &hir.Param{ID: p.Name.ID, Span: p.Span, Name: p.Name.Name, Ty: ty})
		c.cfg.Names[p.Name.ID] = hir.LocalRes(p.Name.ID)
		c.cfg.Tys[p.Name.ID] = ty
	}

	it := &hir.Item{Span: decl.Span, Namespace: ns, Name: decl.Name.Name, Decl: d, Requires: requires}
	id := c.cfg.Package.AddItem(it)
	local := hir.LocalItem(id)

	if c.isDuplicate(ns, decl.Name.Name) {
		c.errorf(diag.ResDuplicate, decl.Name.Span, "%s is already declared", it.FullName())
	} else {
		c.cfg.Globals.Set(ns, decl.Name.Name, local)
	}
	c.markDeclared(ns, decl.Name.Name)
	c.cfg.Names[decl.Name.ID] = hir.ItemRes(local)
	c.cfg.Tys[decl.Name.ID] = d.Ty()

	return pending{decl: decl, item: it, ns: ns, opens: opens}, true
}

// isDuplicate reports a clash with an item of the same package. Items of
// dependencies are shadowed, and earlier notebook cells may be redefined.
func (c *Checker) isDuplicate(ns, name string) bool {
	if c.declared[ns][name] {
		return true
	}
	if c.cfg.Fragment {
		return false
	}
	prev, ok := c.cfg.Globals.Lookup(ns, name)
	return ok && prev.IsLocal()
}

func (c *Checker) markDeclared(ns, name string) {
	names, ok := c.declared[ns]
	if !ok {
		names = make(map[string]bool)
		c.declared[ns] = names
	}
	names[name] = true
}

func (c *Checker) typeRef(t *ast.TypeRef) hir.Ty {
	p, ok := hir.PrimByName(t.Name)
	if !ok {
		c.errorf(diag.ResNotAType, t.Span, "unknown type %s", t.Name)
		c.cfg.Names[t.ID] = hir.Res{}
		return hir.Err
	}
	c.cfg.Names[t.ID] = hir.PrimTyRes(p)
	return hir.PrimTy(p)
}

func (c *Checker) checkCallable(p pending) {
	d := p.item.Decl
	c.ns, c.opens, c.current = p.ns, p.opens, d
	defer func() { c.current = nil }()

	if p.decl.Intrinsic {
		return
	}
	params := NewScope()
	for _, prm := range d.Params {
		params.Declare(prm.Name, Binding{ID: prm.ID, Ty: prm.Ty})
	}
	c.scopes = []*Scope{params}
	body := c.checkBlock(p.decl.Body)
	d.Body = body

	if d.Output.Is(hir.PrimUnit) || d.Output.IsErr() {
		return
	}
	if n := len(body.Stmts); n > 0 && body.Stmts[n-1].Kind == hir.StmtExpr {
		last := body.Stmts[n-1].Expr
		if !last.Ty.Equal(d.Output) {
			c.errorf(diag.TypMismatch, last.Span, "expected %s, found %s", d.Output, last.Ty)
		}
		return
	}
	if !alwaysReturns(body) {
		c.errorf(diag.TypMissingReturn, d.Name.Span, "%s must return a value of type %s on every path", d.Name.Name, d.Output)
	}
}

// alwaysReturns reports whether every path through b ends in a return.
func alwaysReturns(b *hir.Block) bool {
	for _, st := range b.Stmts {
		switch st.Kind {
		case hir.StmtReturn:
			return true
		case hir.StmtIf:
			if st.Else == nil {
				continue
			}
			all := alwaysReturns(st.Else)
			for _, br := range st.Branches {
				all = all && alwaysReturns(br.Body)
			}
			if all {
				return true
			}
		}
	}
	return false
}
