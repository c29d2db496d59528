package fir

import (
	"fmt"

	"fortio.org/safecast"

	"qls/internal/hir"
	"qls/internal/source"
)

// Lower builds the analysis form of pkg, which the store knows as id.
// Local item references are made absolute on the way.
func Lower(items ItemLookup, id hir.PackageID, pkg *hir.Package) *Package {
	a := newAnalyzer(items)
	out := newPackage(id)
	for _, it := range pkg.Items {
		d := it.Decl
		c := Callable{
			Item: hir.ItemID{Package: id, Item: it.ID},
			Name: it.FullName(),
			Kind: d.Kind,
			Span: d.Span,
		}
		if d.Body != nil {
			l := &lowerer{pkg: out, state: a.analyzeBody(id, d.Body.Stmts), items: items}
			c.Body = l.block(d.Body.Span, d.Body.Stmts)
		}
		out.Callables = append(out.Callables, c)
	}
	if len(pkg.Stmts) > 0 {
		l := &lowerer{pkg: out, state: a.analyzeBody(id, pkg.Stmts), items: items}
		span := pkg.Stmts[0].Span.Cover(pkg.Stmts[len(pkg.Stmts)-1].Span)
		out.Entry = l.block(span, pkg.Stmts)
	}
	return out
}

type lowerer struct {
	pkg   *Package
	state *bodyState
	items ItemLookup
}

func index[T ~uint32](n int) T {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("fir arena overflow: %w", err))
	}
	return T(v)
}

func (l *lowerer) block(span source.Span, stmts []*hir.Stmt) BlockID {
	b := Block{Span: span}
	for _, st := range stmts {
		if st.Kind == hir.StmtEmpty {
			continue
		}
		b.Stmts = append(b.Stmts, l.stmt(st))
	}
	l.pkg.Blocks = append(l.pkg.Blocks, b)
	return index[BlockID](len(l.pkg.Blocks) - 1)
}

func (l *lowerer) subBlock(b *hir.Block) BlockID {
	if b == nil {
		return NoBlockID
	}
	return l.block(b.Span, b.Stmts)
}

func (l *lowerer) stmt(st *hir.Stmt) StmtID {
	out := Stmt{Span: st.Span}
	switch st.Kind {
	case hir.StmtLocal:
		out.Kind = StmtLocal
		out.Local = st.Name.ID
		out.Expr = l.expr(st.Expr)
	case hir.StmtAssign:
		out.Kind = StmtAssign
		out.Local = st.Target.Local
		out.Expr = l.expr(st.Expr)
	case hir.StmtQubit:
		out.Kind = StmtQubit
		out.Local = st.Name.ID
	case hir.StmtReturn:
		out.Kind = StmtReturn
		out.Expr = l.expr(st.Expr)
	case hir.StmtIf:
		out.Kind = StmtIf
		for _, br := range st.Branches {
			out.Branches = append(out.Branches, Branch{Cond: l.expr(br.Cond), Body: l.subBlock(br.Body)})
		}
		out.Else = l.subBlock(st.Else)
	case hir.StmtWhile:
		out.Kind = StmtWhile
		out.Expr = l.expr(st.Expr)
		out.Body = l.subBlock(st.Body)
	default:
		out.Kind = StmtExpr
		out.Expr = l.expr(st.Expr)
	}
	l.pkg.Stmts = append(l.pkg.Stmts, out)
	return index[StmtID](len(l.pkg.Stmts) - 1)
}

func (l *lowerer) expr(e *hir.Expr) ExprID {
	out := Expr{Span: e.Span, Ty: e.Ty}
	switch e.Kind {
	case hir.ExprLit:
		out.Kind = ExprLit
		out.Lit = e.Lit
	case hir.ExprUnit:
		out.Kind = ExprUnit
	case hir.ExprVar:
		switch e.Res.Kind {
		case hir.ResLocal:
			out.Kind = ExprLocal
			out.Local = e.Res.Local
			out.Compute = l.state.locals[e.Res.Local]
		case hir.ResItem:
			out.Kind = ExprItem
			out.Item = e.Res.Item.Resolve(l.pkg.ID)
			if it, ok := l.items.Item(out.Item); ok {
				out.Name = it.FullName()
			}
		}
	case hir.ExprUnary:
		out.Kind = ExprUnary
		out.Op = e.Op
		out.Operand = l.expr(e.Operand)
		out.Compute = l.pkg.Expr(out.Operand).Compute
	case hir.ExprBinary:
		out.Kind = ExprBinary
		out.Op = e.Op
		out.Lhs = l.expr(e.Lhs)
		out.Rhs = l.expr(e.Rhs)
		out.Compute = l.pkg.Expr(out.Lhs).Compute.Join(l.pkg.Expr(out.Rhs).Compute)
	case hir.ExprCall:
		out.Kind = ExprCall
		out.Callee = l.expr(e.Callee)
		args := Static
		for _, a := range e.Args {
			id := l.expr(a)
			out.Args = append(out.Args, id)
			args = args.Join(l.pkg.Expr(id).Compute)
		}
		out.Compute = l.state.callKind(e, args)
	}
	l.pkg.Exprs = append(l.pkg.Exprs, out)
	return index[ExprID](len(l.pkg.Exprs) - 1)
}
