package fir

import (
	"qls/internal/ast"
	"qls/internal/hir"
	"qls/internal/source"
)

type ExprKind uint8

const (
	ExprLit ExprKind = iota
	ExprLocal
	ExprItem
	ExprCall
	ExprUnary
	ExprBinary
	ExprUnit
)

type Expr struct {
	Span    source.Span
	Kind    ExprKind
	Ty      hir.Ty
	Compute ComputeKind
	Lit     *ast.Lit
	Local   ast.NodeID
	// Item is absolute; Name is its fully qualified name.
	Item    hir.ItemID
	Name    string
	Callee  ExprID
	Args    []ExprID
	Op      ast.Op
	Lhs     ExprID
	Rhs     ExprID
	Operand ExprID
}

type StmtKind uint8

const (
	StmtLocal StmtKind = iota
	StmtAssign
	StmtQubit
	StmtReturn
	StmtIf
	StmtWhile
	StmtExpr
)

type Branch struct {
	Cond ExprID
	Body BlockID
}

type Stmt struct {
	Span     source.Span
	Kind     StmtKind
	Local    ast.NodeID
	Expr     ExprID
	Branches []Branch
	Else     BlockID
	Body     BlockID
}

type Block struct {
	Span  source.Span
	Stmts []StmtID
}

// Callable is a lowered callable of the package. Intrinsics have no body.
type Callable struct {
	Item hir.ItemID
	Name string
	Kind ast.CallableKind
	Span source.Span
	Body BlockID
}

// Package is the analysis form of one HIR package. Index 0 of every arena
// is a placeholder so that zero ids stay invalid.
type Package struct {
	ID        hir.PackageID
	Exprs     []Expr
	Stmts     []Stmt
	Blocks    []Block
	Callables []Callable
	// Entry holds the lowered top-level statements.
	Entry BlockID
}

func newPackage(id hir.PackageID) *Package {
	return &Package{
		ID:     id,
		Exprs:  make([]Expr, 1),
		Stmts:  make([]Stmt, 1),
		Blocks: make([]Block, 1),
	}
}

func (p *Package) Expr(id ExprID) *Expr    { return &p.Exprs[id] }
func (p *Package) Stmt(id StmtID) *Stmt    { return &p.Stmts[id] }
func (p *Package) Block(id BlockID) *Block { return &p.Blocks[id] }
