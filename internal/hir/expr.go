package hir

import (
	"qls/internal/ast"
	"qls/internal/source"
)

type ExprKind uint8

const (
	ExprLit ExprKind = iota
	ExprVar
	ExprCall
	ExprUnary
	ExprBinary
	ExprUnit
)

func (k ExprKind) String() string {
	switch k {
	case ExprLit:
		return "Lit"
	case ExprVar:
		return "Var"
	case ExprCall:
		return "Call"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprUnit:
		return "Unit"
	default:
		return "Unknown"
	}
}

// Expr is a typed expression. Parentheses are dropped during lowering, so a
// parenthesized expression keeps the id of its inner expression.
type Expr struct {
	ID      ast.NodeID
	Span    source.Span
	Kind    ExprKind
	Ty      Ty
	Lit     *ast.Lit
	Res     Res
	Callee  *Expr
	Args    []*Expr
	Op      ast.Op
	Lhs     *Expr
	Rhs     *Expr
	Operand *Expr
}
