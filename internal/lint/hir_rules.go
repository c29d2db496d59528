package lint

import (
	"qls/internal/ast"
	"qls/internal/frontend"
	"qls/internal/hir"
)

func checkDoubleEquality(ctx *context, unit *frontend.CompileUnit) {
	hir.WalkPackage(unit.Package, hir.ExprVisitor(func(e *hir.Expr) bool {
		if e.Kind == hir.ExprBinary && (e.Op == ast.OpEq || e.Op == ast.OpNe) && e.Lhs.Ty.Is(hir.PrimDouble) {
			ctx.report(e.Span, "strict comparison of doubles", "consider comparing them with some margin of error")
		}
		return true
	}))
}

// quantumUse records whether a body touches quantum state.
type quantumUse struct {
	found bool
}

func (q *quantumUse) VisitStmt(st *hir.Stmt) {
	if st.Kind == hir.StmtQubit {
		q.found = true
	}
}

func (q *quantumUse) VisitExpr(e *hir.Expr) bool {
	if e.Kind == hir.ExprCall && e.Callee.Ty.Kind == hir.TyCallable && e.Callee.Ty.Callable.Kind == ast.CallableOperation {
		q.found = true
	}
	return !q.found
}

func checkNeedlessOperation(ctx *context, unit *frontend.CompileUnit) {
	for _, it := range unit.Package.Items {
		d := it.Decl
		if d.Kind != ast.CallableOperation || d.Body == nil {
			continue
		}
		use := &quantumUse{}
		hir.WalkBlock(d.Body, use)
		if !use.found {
			ctx.report(d.Name.Span, "operation does not contain any quantum operations", "this callable can be declared as a function instead")
		}
	}
}
