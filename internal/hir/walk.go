package hir

// Visitor receives HIR nodes during a walk. Returning false from VisitExpr
// skips the expression's children.
type Visitor interface {
	VisitStmt(*Stmt)
	VisitExpr(*Expr) bool
}

// WalkPackage visits every callable body and then the top-level statements.
func WalkPackage(p *Package, v Visitor) {
	for _, it := range p.Items {
		if it.Decl != nil && it.Decl.Body != nil {
			WalkBlock(it.Decl.Body, v)
		}
	}
	for _, st := range p.Stmts {
		WalkStmt(st, v)
	}
}

func WalkBlock(b *Block, v Visitor) {
	if b == nil {
		return
	}
	for _, st := range b.Stmts {
		WalkStmt(st, v)
	}
}

func WalkStmt(st *Stmt, v Visitor) {
	v.VisitStmt(st)
	if st.Expr != nil {
		WalkExpr(st.Expr, v)
	}
	for _, br := range st.Branches {
		WalkExpr(br.Cond, v)
		WalkBlock(br.Body, v)
	}
	WalkBlock(st.Else, v)
	WalkBlock(st.Body, v)
}

func WalkExpr(e *Expr, v Visitor) {
	if e == nil || !v.VisitExpr(e) {
		return
	}
	switch e.Kind {
	case ExprCall:
		WalkExpr(e.Callee, v)
		for _, a := range e.Args {
			WalkExpr(a, v)
		}
	case ExprUnary:
		WalkExpr(e.Operand, v)
	case ExprBinary:
		WalkExpr(e.Lhs, v)
		WalkExpr(e.Rhs, v)
	}
}

// ExprVisitor adapts a function to Visitor, ignoring statements.
type ExprVisitor func(*Expr) bool

func (f ExprVisitor) VisitStmt(*Stmt)        {}
func (f ExprVisitor) VisitExpr(e *Expr) bool { return f(e) }
