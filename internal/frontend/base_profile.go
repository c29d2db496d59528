package frontend

import (
	"qls/internal/ast"
	"qls/internal/diag"
	"qls/internal/hir"
)

// CheckBaseProfile rejects constructs the Base profile cannot express.
// Only comparisons of measurement results are checked here; everything
// else Base forbids is a capability the analysis pass checks for richer
// profiles.
func CheckBaseProfile(items []*hir.Item, stmts []*hir.Stmt) []diag.Diagnostic {
	var out []diag.Diagnostic
	v := hir.ExprVisitor(func(e *hir.Expr) bool {
		if e.Kind == hir.ExprBinary && (e.Op == ast.OpEq || e.Op == ast.OpNe) && e.Lhs.Ty.Is(hir.PrimResult) {
			out = append(out, diag.NewError(diag.BaseResultComparison, e.Span,
				"cannot compare measurement results when targeting the base profile"))
		}
		return true
	})
	for _, it := range items {
		if it.Decl.Body != nil {
			hir.WalkBlock(it.Decl.Body, v)
		}
	}
	for _, st := range stmts {
		hir.WalkStmt(st, v)
	}
	return out
}
