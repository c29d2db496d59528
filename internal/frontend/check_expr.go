package frontend

import (
	"qls/internal/ast"
	"qls/internal/diag"
	"qls/internal/hir"
)

func litTy(l *ast.Lit) hir.Ty {
	switch l.Kind {
	case ast.LitInt:
		return hir.Int
	case ast.LitBigInt:
		return hir.BigInt
	case ast.LitDouble:
		return hir.Double
	case ast.LitBool:
		return hir.Bool
	case ast.LitResult:
		return hir.Result
	case ast.LitString:
		return hir.String
	}
	return hir.Err
}

func (c *Checker) checkExpr(e *ast.Expr) *hir.Expr {
	out := c.lowerExpr(e, false)
	c.cfg.Tys[e.ID] = out.Ty
	return out
}

// lowerExpr produces the HIR expression for e. Callable items are values
// only in callee position.
func (c *Checker) lowerExpr(e *ast.Expr, callee bool) *hir.Expr {
	out := &hir.Expr{ID: e.ID, Span: e.Span}
	switch e.Kind {
	case ast.ExprLit:
		out.Kind = hir.ExprLit
		out.Lit = e.Lit
		out.Ty = litTy(e.Lit)

	case ast.ExprUnit:
		out.Kind = hir.ExprUnit
		out.Ty = hir.Unit

	case ast.ExprParen:
		inner := c.checkExpr(e.Operand)
		return inner

	case ast.ExprPath:
		out.Kind = hir.ExprVar
		out.Res, out.Ty = c.resolvePath(e.Path)
		if out.Res.Kind == hir.ResItem && !callee {
			c.errorf(diag.TypNotValue, e.Span, "callable %s cannot be used as a value", e.Path)
			out.Ty = hir.Err
		}

	case ast.ExprCall:
		c.lowerCall(e, out)

	case ast.ExprUnary:
		out.Kind = hir.ExprUnary
		out.Op = e.Op
		out.Operand = c.checkExpr(e.Operand)
		out.Ty = c.unaryTy(e, out.Operand.Ty)

	case ast.ExprBinary:
		out.Kind = hir.ExprBinary
		out.Op = e.Op
		out.Lhs = c.checkExpr(e.Lhs)
		out.Rhs = c.checkExpr(e.Rhs)
		out.Ty = c.binaryTy(e, out.Lhs.Ty, out.Rhs.Ty)
	}
	return out
}

func (c *Checker) lowerCall(e *ast.Expr, out *hir.Expr) {
	out.Kind = hir.ExprCall
	out.Callee = c.lowerExpr(e.Callee, true)
	c.cfg.Tys[e.Callee.ID] = out.Callee.Ty
	for _, a := range e.Args {
		out.Args = append(out.Args, c.checkExpr(a))
	}
	out.Ty = hir.Err

	fn := out.Callee.Ty
	switch {
	case fn.IsErr():
		return
	case fn.Kind != hir.TyCallable:
		c.errorf(diag.TypNotCallable, e.Callee.Span, "expression of type %s is not callable", fn)
		return
	}
	sig := fn.Callable
	out.Ty = sig.Output
	if len(out.Args) != len(sig.Inputs) {
		c.errorf(diag.TypArity, e.Span, "expected %d arguments, found %d", len(sig.Inputs), len(out.Args))
	} else {
		for i, a := range out.Args {
			if !a.Ty.Equal(sig.Inputs[i]) {
				c.errorf(diag.TypMismatch, a.Span, "expected %s, found %s", sig.Inputs[i], a.Ty)
			}
		}
	}
	if sig.Kind == ast.CallableOperation && c.current != nil && c.current.Kind == ast.CallableFunction {
		c.errorf(diag.TypOpInFunction, e.Span, "operation cannot be called from function %s", c.current.Name.Name)
	}
}

// resolvePath resolves a value path. A single segment is looked up in the
// local scopes, then the current namespace, opened namespaces, the core
// namespace and finally the root namespace.
func (c *Checker) resolvePath(p *ast.Path) (hir.Res, hir.Ty) {
	res, ok := c.lookupPath(p)
	c.cfg.Names[p.ID] = res
	if !ok {
		return res, hir.Err
	}
	switch res.Kind {
	case hir.ResLocal:
		b, _ := c.lookupLocal(p.Last().Name)
		return res, b.Ty
	case hir.ResItem:
		it, found := c.item(res.Item)
		if !found {
			return res, hir.Err
		}
		return res, it.Decl.Ty()
	}
	return res, hir.Err
}

func (c *Checker) lookupPath(p *ast.Path) (hir.Res, bool) {
	name := p.Last().Name
	if len(p.Segments) == 1 {
		if b, ok := c.lookupLocal(name); ok {
			return hir.LocalRes(b.ID), true
		}
		for _, ns := range c.searchNamespaces() {
			if id, ok := c.cfg.Globals.Lookup(ns, name); ok {
				return hir.ItemRes(id), true
			}
		}
		c.errorf(diag.ResNotFound, p.Span, "%s not found", name)
		return hir.Res{}, false
	}

	ns := p.Namespace()
	if !c.cfg.Globals.HasNamespace(ns) {
		c.errorf(diag.ResNamespaceNotFound, p.Span, "namespace %s not found", ns)
		return hir.Res{}, false
	}
	id, ok := c.cfg.Globals.Lookup(ns, name)
	if !ok {
		c.errorf(diag.ResNotFound, p.Span, "%s not found in %s", name, ns)
		return hir.Res{}, false
	}
	return hir.ItemRes(id), true
}

func (c *Checker) searchNamespaces() []string {
	out := make([]string, 0, len(c.opens)+3)
	out = append(out, c.ns)
	out = append(out, c.opens...)
	out = append(out, coreNamespace, "")
	return out
}

// item finds an item of the package being built or of a dependency.
func (c *Checker) item(id hir.ItemID) (*hir.Item, bool) {
	if id.IsLocal() {
		return c.cfg.Package.Item(id.Item)
	}
	return c.cfg.Store.Item(id)
}

func isNumeric(t hir.Ty) bool {
	return t.Is(hir.PrimInt) || t.Is(hir.PrimBigInt) || t.Is(hir.PrimDouble)
}

func (c *Checker) unaryTy(e *ast.Expr, operand hir.Ty) hir.Ty {
	if operand.IsErr() {
		return hir.Err
	}
	switch e.Op {
	case ast.OpNeg:
		if isNumeric(operand) {
			return operand
		}
	case ast.OpNot:
		if operand.Is(hir.PrimBool) {
			return hir.Bool
		}
	}
	c.errorf(diag.TypInvalidOperands, e.Span, "cannot apply %s to %s", e.Op, operand)
	return hir.Err
}

func (c *Checker) binaryTy(e *ast.Expr, lhs, rhs hir.Ty) hir.Ty {
	op := e.Op
	result := lhs
	if op.IsComparison() || op.IsLogical() {
		result = hir.Bool
	}
	if lhs.IsErr() || rhs.IsErr() {
		if result.IsErr() {
			return rhs
		}
		return result
	}
	if c.operandsOK(op, lhs, rhs) {
		return result
	}
	c.errorf(diag.TypInvalidOperands, e.Span, "cannot apply %s to %s and %s", op, lhs, rhs)
	if op.IsComparison() || op.IsLogical() {
		return hir.Bool
	}
	return hir.Err
}

func (c *Checker) operandsOK(op ast.Op, lhs, rhs hir.Ty) bool {
	if !lhs.Equal(rhs) || lhs.Kind != hir.TyPrim {
		return false
	}
	switch op {
	case ast.OpAdd:
		return isNumeric(lhs) || lhs.Is(hir.PrimString)
	case ast.OpSub, ast.OpMul, ast.OpDiv:
		return isNumeric(lhs)
	case ast.OpMod:
		return lhs.Is(hir.PrimInt) || lhs.Is(hir.PrimBigInt)
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return isNumeric(lhs)
	case ast.OpEq, ast.OpNe:
		return !lhs.Is(hir.PrimUnit) && !lhs.Is(hir.PrimQubit)
	case ast.OpAnd, ast.OpOr:
		return lhs.Is(hir.PrimBool)
	}
	return false
}
