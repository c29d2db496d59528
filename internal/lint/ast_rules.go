package lint

import (
	"qls/internal/ast"
	"qls/internal/frontend"
)

func inspectFiles(unit *frontend.CompileUnit, f func(ast.Node) bool) {
	for _, file := range unit.AST.Package.Files {
		ast.Inspect(file, f)
	}
}

func unparen(e *ast.Expr) *ast.Expr {
	for e.Kind == ast.ExprParen {
		e = e.Operand
	}
	return e
}

func checkDivisionByZero(ctx *context, unit *frontend.CompileUnit) {
	inspectFiles(unit, func(n ast.Node) bool {
		e, ok := n.(*ast.Expr)
		if !ok || e.Kind != ast.ExprBinary || (e.Op != ast.OpDiv && e.Op != ast.OpMod) {
			return true
		}
		if rhs := unparen(e.Rhs); rhs.Kind == ast.ExprLit && rhs.Lit.IsZero() {
			ctx.report(e.Span, "attempt to divide by zero", "")
		}
		return true
	})
}

func checkNeedlessParens(ctx *context, unit *frontend.CompileUnit) {
	const help = "remove the extra parentheses for clarity"
	whole := func(e *ast.Expr) {
		if e != nil && e.Kind == ast.ExprParen {
			ctx.report(e.Span, "unnecessary parentheses", help)
		}
	}
	inspectFiles(unit, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Stmt:
			switch n.Kind {
			case ast.StmtLet, ast.StmtMutable, ast.StmtSet, ast.StmtAssign, ast.StmtReturn, ast.StmtWhile:
				whole(n.Expr)
			}
		case *ast.Branch:
			whole(n.Cond)
		case *ast.Expr:
			if n.Kind != ast.ExprParen {
				return true
			}
			switch n.Operand.Kind {
			case ast.ExprLit, ast.ExprPath, ast.ExprParen, ast.ExprCall, ast.ExprUnit:
				ctx.report(n.Span, "unnecessary parentheses", help)
			}
		}
		return true
	})
}

func checkRedundantSemicolons(ctx *context, unit *frontend.CompileUnit) {
	run := func(stmts []*ast.Stmt) {
		for i := 0; i < len(stmts); i++ {
			if stmts[i].Kind != ast.StmtEmpty {
				continue
			}
			span := stmts[i].Span
			for i+1 < len(stmts) && stmts[i+1].Kind == ast.StmtEmpty {
				i++
				span = span.Cover(stmts[i].Span)
			}
			ctx.report(span, "redundant semicolons", "remove the redundant semicolons")
		}
	}
	inspectFiles(unit, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.File:
			run(n.Stmts)
		case *ast.Block:
			run(n.Stmts)
		}
		return true
	})
}
