package fir

import (
	"qls/internal/ast"
	"qls/internal/hir"
)

// ItemLookup finds items by absolute reference.
type ItemLookup interface {
	Item(hir.ItemID) (*hir.Item, bool)
}

// analyzer computes compute kinds. Callable results are summarised once
// per absolute item, assuming static arguments.
type analyzer struct {
	items    ItemLookup
	returns  map[hir.ItemID]ComputeKind
	visiting map[hir.ItemID]bool
}

func newAnalyzer(items ItemLookup) *analyzer {
	return &analyzer{
		items:    items,
		returns:  make(map[hir.ItemID]ComputeKind),
		visiting: make(map[hir.ItemID]bool),
	}
}

// bodyState holds the local compute kinds of one body. The analysis is
// flow-insensitive: a variable that is ever assigned a dynamic value is
// dynamic everywhere, which makes loops converge in a few rounds.
type bodyState struct {
	a       *analyzer
	pkg     hir.PackageID // package the body belongs to, for local item refs
	locals  map[ast.NodeID]ComputeKind
	ret     ComputeKind
	changed bool
}

func (a *analyzer) analyzeBody(pkg hir.PackageID, stmts []*hir.Stmt) *bodyState {
	s := &bodyState{a: a, pkg: pkg, locals: make(map[ast.NodeID]ComputeKind)}
	for {
		s.changed = false
		s.stmts(stmts, Static)
		if !s.changed {
			break
		}
	}
	if n := len(stmts); n > 0 && stmts[n-1].Kind == hir.StmtExpr {
		s.ret = s.ret.Join(s.expr(stmts[n-1].Expr))
	}
	return s
}

func (s *bodyState) raise(id ast.NodeID, k ComputeKind) {
	if k == Dynamic && s.locals[id] != Dynamic {
		s.locals[id] = Dynamic
		s.changed = true
	}
}

func (s *bodyState) stmts(list []*hir.Stmt, ctx ComputeKind) {
	for _, st := range list {
		s.stmt(st, ctx)
	}
}

func (s *bodyState) block(b *hir.Block, ctx ComputeKind) {
	if b != nil {
		s.stmts(b.Stmts, ctx)
	}
}

func (s *bodyState) stmt(st *hir.Stmt, ctx ComputeKind) {
	switch st.Kind {
	case hir.StmtLocal:
		s.raise(st.Name.ID, s.expr(st.Expr))
	case hir.StmtAssign:
		if st.Target.Kind == hir.ResLocal {
			// присваивание внутри динамической ветки делает переменную динамической
			s.raise(st.Target.Local, s.expr(st.Expr).Join(ctx))
		}
	case hir.StmtReturn:
		s.ret = s.ret.Join(s.expr(st.Expr).Join(ctx))
	case hir.StmtIf:
		c := ctx
		for _, br := range st.Branches {
			c = c.Join(s.expr(br.Cond))
			s.block(br.Body, c)
		}
		s.block(st.Else, c)
	case hir.StmtWhile:
		s.block(st.Body, ctx.Join(s.expr(st.Expr)))
	case hir.StmtExpr, hir.StmtSemi:
		s.expr(st.Expr)
	}
}

func (s *bodyState) expr(e *hir.Expr) ComputeKind {
	switch e.Kind {
	case hir.ExprVar:
		if e.Res.Kind == hir.ResLocal {
			return s.locals[e.Res.Local]
		}
	case hir.ExprUnary:
		return s.expr(e.Operand)
	case hir.ExprBinary:
		return s.expr(e.Lhs).Join(s.expr(e.Rhs))
	case hir.ExprCall:
		args := Static
		for _, a := range e.Args {
			args = args.Join(s.expr(a))
		}
		return s.callKind(e, args)
	}
	return Static
}

// callKind: a call is dynamic if it returns a value computed from dynamic
// arguments or if the callee itself produces a run-time value.
func (s *bodyState) callKind(e *hir.Expr, args ComputeKind) ComputeKind {
	if e.Ty.Is(hir.PrimUnit) || e.Ty.Is(hir.PrimQubit) {
		return Static
	}
	if args == Dynamic {
		return Dynamic
	}
	if e.Callee.Kind != hir.ExprVar || e.Callee.Res.Kind != hir.ResItem {
		return Static
	}
	return s.a.returnKind(e.Callee.Res.Item.Resolve(s.pkg))
}

func (a *analyzer) returnKind(id hir.ItemID) ComputeKind {
	if k, ok := a.returns[id]; ok {
		return k
	}
	if a.visiting[id] {
		return Static
	}
	it, ok := a.items.Item(id)
	if !ok || it.Decl == nil {
		return Static
	}
	d := it.Decl
	var k ComputeKind
	switch {
	case d.Body == nil:
		if d.Kind == ast.CallableOperation && !d.Output.Is(hir.PrimUnit) && !d.Output.Is(hir.PrimQubit) {
			k = Dynamic
		}
	default:
		a.visiting[id] = true
		k = a.analyzeBody(id.Package, d.Body.Stmts).ret
		delete(a.visiting, id)
	}
	a.returns[id] = k
	return k
}
