package frontend

import (
	"qls/internal/ast"
	"qls/internal/diag"
	"qls/internal/hir"
)

func (c *Checker) checkBlock(b *ast.Block) *hir.Block {
	c.pushScope()
	defer c.popScope()

	out := &hir.Block{ID: b.ID, Span: b.Span, Ty: hir.Unit}
	for _, st := range b.Stmts {
		out.Stmts = append(out.Stmts, c.checkStmt(st))
	}
	if n := len(out.Stmts); n > 0 && out.Stmts[n-1].Kind == hir.StmtExpr {
		out.Ty = out.Stmts[n-1].Expr.Ty
	}
	return out
}

func (c *Checker) checkStmt(st *ast.Stmt) *hir.Stmt {
	out := &hir.Stmt{ID: st.ID, Span: st.Span}
	switch st.Kind {
	case ast.StmtLet, ast.StmtMutable:
		out.Kind = hir.StmtLocal
		out.Mutable = st.Kind == ast.StmtMutable
		out.Expr = c.checkExpr(st.Expr)
		ty := out.Expr.Ty
		if st.Ty != nil {
			ann := c.typeRef(st.Ty)
			if !ann.Equal(ty) {
				c.errorf(diag.TypMismatch, st.Expr.Span, "expected %s, found %s", ann, ty)
			}
			if !ann.IsErr() {
				ty = ann
			}
		}
		// объявляем после проверки инициализатора: `let x = x + 1` видит внешний x
		c.declare(st.Name, ty, out.Mutable)
		out.Name = hirIdent(st.Name)

	case ast.StmtSet:
		if c.cfg.Features.Has(FeatureV2PreviewSyntax) {
			c.errorf(diag.SynDeprecatedSet, st.Span, "the set keyword is deprecated, assign with `%s = ...` instead", st.Name.Name)
		}
		c.checkAssign(st, out)

	case ast.StmtAssign:
		if !c.cfg.Features.Has(FeatureV2PreviewSyntax) {
			c.errorf(diag.SynBareAssignment, st.Span, "assignment requires the set keyword: `set %s = ...`", st.Name.Name)
		}
		c.checkAssign(st, out)

	case ast.StmtUse:
		out.Kind = hir.StmtQubit
		if c.current != nil && c.current.Kind == ast.CallableFunction {
			c.errorf(diag.TypUseInFunction, st.Span, "qubits cannot be allocated in function %s", c.current.Name.Name)
		}
		c.declare(st.Name, hir.Qubit, false)
		out.Name = hirIdent(st.Name)

	case ast.StmtReturn:
		out.Kind = hir.StmtReturn
		out.Expr = c.checkExpr(st.Expr)
		switch {
		case c.current == nil:
			c.errorf(diag.TypMismatch, st.Span, "return outside of a callable")
		case !out.Expr.Ty.Equal(c.current.Output):
			c.errorf(diag.TypMismatch, st.Expr.Span, "expected %s, found %s", c.current.Output, out.Expr.Ty)
		}

	case ast.StmtIf:
		out.Kind = hir.StmtIf
		for _, br := range st.Branches {
			out.Branches = append(out.Branches, &hir.Branch{
				Span: br.Span,
				Cond: c.checkCond(br.Cond),
				Body: c.checkBlock(br.Body),
			})
		}
		if st.Else != nil {
			out.Else = c.checkBlock(st.Else)
		}

	case ast.StmtWhile:
		out.Kind = hir.StmtWhile
		out.Expr = c.checkCond(st.Expr)
		out.Body = c.checkBlock(st.Body)

	case ast.StmtExpr:
		out.Kind = hir.StmtExpr
		out.Expr = c.checkExpr(st.Expr)

	case ast.StmtSemi:
		out.Kind = hir.StmtSemi
		out.Expr = c.checkExpr(st.Expr)

	case ast.StmtEmpty:
		out.Kind = hir.StmtEmpty
	}
	return out
}

func (c *Checker) checkAssign(st *ast.Stmt, out *hir.Stmt) {
	out.Kind = hir.StmtAssign
	out.Name = hirIdent(st.Name)
	out.Expr = c.checkExpr(st.Expr)

	b, ok := c.lookupLocal(st.Name.Name)
	if !ok {
		c.errorf(diag.ResNotFound, st.Name.Span, "%s not found", st.Name.Name)
		c.cfg.Names[st.Name.ID] = hir.Res{}
		return
	}
	out.Target = hir.LocalRes(b.ID)
	c.cfg.Names[st.Name.ID] = out.Target
	c.cfg.Tys[st.Name.ID] = b.Ty
	if !b.Mutable {
		c.errorf(diag.TypImmutable, st.Name.Span, "cannot update immutable variable %s", st.Name.Name)
	}
	if !b.Ty.Equal(out.Expr.Ty) {
		c.errorf(diag.TypMismatch, st.Expr.Span, "expected %s, found %s", b.Ty, out.Expr.Ty)
	}
}

func (c *Checker) checkCond(e *ast.Expr) *hir.Expr {
	out := c.checkExpr(e)
	if !out.Ty.Equal(hir.Bool) {
		c.errorf(diag.TypMismatch, e.Span, "expected Bool, found %s", out.Ty)
	}
	return out
}
