// Package capcheck verifies that a lowered package only uses run-time
// features its target supports.
package capcheck

import (
	"fmt"

	"qls/internal/ast"
	"qls/internal/diag"
	"qls/internal/fir"
	"qls/internal/hir"
	"qls/internal/source"
	"qls/internal/target"
)

const resetName = "Microsoft.Quantum.Intrinsic.Reset"

// Error is a capability violation at a node of the analysis form.
type Error struct {
	Span    source.Span
	Missing target.Capabilities
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}

var capCodes = map[target.Capabilities]diag.Code{
	target.ForwardBranching:          diag.CapForwardBranching,
	target.BackwardsBranching:        diag.CapBackwardsBranching,
	target.IntegerComputations:       diag.CapIntegerComputations,
	target.FloatingPointComputations: diag.CapFloatingPointComputation,
	target.HigherLevelConstructs:     diag.CapHigherLevelConstructs,
	target.QubitReset:                diag.CapQubitReset,
}

// Code returns the diagnostic code for the missing capability.
func (e Error) Code() diag.Code {
	if c, ok := capCodes[e.Missing]; ok {
		return c
	}
	return diag.CapInfo
}

// Diagnostic converts the violation into a pass diagnostic.
func (e Error) Diagnostic() diag.Diagnostic {
	return diag.New(diag.KindPass, diag.SevError, e.Code(), e.Span, e.Message)
}

type checker struct {
	pkg  *fir.Package
	caps target.Capabilities
	errs []Error
}

// Check walks every callable body and the entry statements of pkg and
// reports each construct that needs a capability outside caps. Errors come
// out in walk order.
func Check(pkg *fir.Package, caps target.Capabilities) []Error {
	c := &checker{pkg: pkg, caps: caps}
	for _, callable := range pkg.Callables {
		if callable.Body.IsValid() {
			c.block(callable.Body)
		}
	}
	if pkg.Entry.IsValid() {
		c.block(pkg.Entry)
	}
	return c.errs
}

func (c *checker) need(cap target.Capabilities, span source.Span, format string, args ...any) {
	if c.caps.Has(cap) {
		return
	}
	c.errs = append(c.errs, Error{Span: span, Missing: cap, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) block(id fir.BlockID) {
	if !id.IsValid() {
		return
	}
	for _, st := range c.pkg.Block(id).Stmts {
		c.stmt(st)
	}
}

func (c *checker) stmt(id fir.StmtID) {
	st := c.pkg.Stmt(id)
	switch st.Kind {
	case fir.StmtIf:
		for _, br := range st.Branches {
			c.expr(br.Cond)
			if cond := c.pkg.Expr(br.Cond); cond.Compute == fir.Dynamic {
				c.need(target.ForwardBranching, cond.Span, "cannot branch on a measurement-dependent condition")
			}
			c.block(br.Body)
		}
		c.block(st.Else)
	case fir.StmtWhile:
		c.expr(st.Expr)
		if cond := c.pkg.Expr(st.Expr); cond.Compute == fir.Dynamic {
			c.need(target.BackwardsBranching, cond.Span, "cannot loop on a measurement-dependent condition")
		}
		c.block(st.Body)
	case fir.StmtQubit:
	default:
		if st.Expr.IsValid() {
			c.expr(st.Expr)
		}
	}
}

func (c *checker) expr(id fir.ExprID) {
	e := c.pkg.Expr(id)
	switch e.Kind {
	case fir.ExprUnary:
		c.expr(e.Operand)
		if e.Compute == fir.Dynamic && e.Op == ast.OpNeg {
			c.dynamicValue(e.Ty, e.Span)
		}
	case fir.ExprBinary:
		c.expr(e.Lhs)
		c.expr(e.Rhs)
		if e.Compute == fir.Dynamic && e.Op != ast.OpAnd && e.Op != ast.OpOr {
			// the operand type decides which computation is needed
			c.dynamicValue(c.pkg.Expr(e.Lhs).Ty, e.Span)
		}
	case fir.ExprCall:
		c.expr(e.Callee)
		for _, a := range e.Args {
			c.expr(a)
		}
		if callee := c.pkg.Expr(e.Callee); callee.Kind == fir.ExprItem && callee.Name == resetName {
			c.need(target.QubitReset, e.Span, "qubit reset is not supported by the target")
		}
	}
}

func (c *checker) dynamicValue(ty hir.Ty, span source.Span) {
	switch {
	case ty.Is(hir.PrimInt):
		c.need(target.IntegerComputations, span, "cannot compute with a measurement-dependent Int")
	case ty.Is(hir.PrimDouble):
		c.need(target.FloatingPointComputations, span, "cannot compute with a measurement-dependent Double")
	case ty.Is(hir.PrimString), ty.Is(hir.PrimBigInt):
		c.need(target.HigherLevelConstructs, span, "cannot compute with a measurement-dependent %s", ty)
	}
}
