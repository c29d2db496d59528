package hir

import (
	"qls/internal/ast"
	"qls/internal/source"
)

type StmtKind uint8

const (
	StmtLocal  StmtKind = iota // let / mutable
	StmtAssign                 // set x = e, or x = e with the preview syntax
	StmtQubit                  // use q = Qubit()
	StmtReturn
	StmtIf
	StmtWhile
	StmtExpr // trailing expression, value of the block
	StmtSemi
	StmtEmpty
)

func (k StmtKind) String() string {
	switch k {
	case StmtLocal:
		return "local"
	case StmtAssign:
		return "assign"
	case StmtQubit:
		return "qubit"
	case StmtReturn:
		return "return"
	case StmtIf:
		return "if"
	case StmtWhile:
		return "while"
	case StmtExpr:
		return "expr"
	case StmtSemi:
		return "semi"
	case StmtEmpty:
		return "empty"
	}
	return "unknown"
}

type Block struct {
	ID    ast.NodeID
	Span  source.Span
	Stmts []*Stmt
	Ty    Ty
}

// Stmt is a statement. Name is the declared binding for StmtLocal and
// StmtQubit; Target is the updated variable for StmtAssign.
type Stmt struct {
	ID       ast.NodeID
	Span     source.Span
	Kind     StmtKind
	Mutable  bool
	Name     *Ident
	Target   Res
	Expr     *Expr
	Branches []*Branch
	Else     *Block
	Body     *Block
}

type Branch struct {
	Span source.Span
	Cond *Expr
	Body *Block
}
