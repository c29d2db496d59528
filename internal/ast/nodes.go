package ast

import (
	"math/big"
	"strings"

	"qls/internal/source"
)

// Node is implemented by every syntax node.
type Node interface {
	NodeID() NodeID
	NodeSpan() source.Span
}

// Package is the syntax of one compile unit: one File per source or cell.
type Package struct {
	Files []*File
}

// File holds the top level of a single source. Namespaced sources only fill
// Namespaces; notebook cells may also declare free items and statements.
type File struct {
	ID         NodeID
	Span       source.Span
	Name       string
	Namespaces []*Namespace
	Items      []*Callable
	Stmts      []*Stmt
}

type Namespace struct {
	ID    NodeID
	Span  source.Span
	Name  *Path
	Opens []*Path
	Items []*Callable
}

type Attr struct {
	ID   NodeID
	Span source.Span
	Name *Ident
	Arg  *Ident // nil for @EntryPoint()
}

type CallableKind uint8

const (
	CallableFunction CallableKind = iota
	CallableOperation
)

func (k CallableKind) String() string {
	if k == CallableOperation {
		return "operation"
	}
	return "function"
}

type Callable struct {
	ID        NodeID
	Span      source.Span
	Attrs     []*Attr
	Kind      CallableKind
	Name      *Ident
	Params    []*Param
	Output    *TypeRef
	Body      *Block // nil when Intrinsic
	Intrinsic bool
}

type Param struct {
	ID   NodeID
	Span source.Span
	Name *Ident
	Ty   *TypeRef
}

type TypeRef struct {
	ID   NodeID
	Span source.Span
	Name string
}

type Ident struct {
	ID   NodeID
	Span source.Span
	Name string
}

type Path struct {
	ID       NodeID
	Span     source.Span
	Segments []*Ident
}

func (p *Path) String() string {
	if p == nil {
		return ""
	}
	parts := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		parts[i] = s.Name
	}
	return strings.Join(parts, ".")
}

// Namespace returns everything but the last segment, joined with dots.
func (p *Path) Namespace() string {
	if p == nil || len(p.Segments) < 2 {
		return ""
	}
	parts := make([]string, len(p.Segments)-1)
	for i, s := range p.Segments[:len(p.Segments)-1] {
		parts[i] = s.Name
	}
	return strings.Join(parts, ".")
}

// Last returns the final segment.
func (p *Path) Last() *Ident {
	return p.Segments[len(p.Segments)-1]
}

type Block struct {
	ID    NodeID
	Span  source.Span
	Stmts []*Stmt
}

type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtMutable
	StmtSet
	StmtAssign // bare `x = e;`
	StmtUse
	StmtReturn
	StmtIf
	StmtWhile
	StmtExpr // trailing expression without semicolon
	StmtSemi // expression followed by a semicolon
	StmtEmpty
)

type Stmt struct {
	ID       NodeID
	Span     source.Span
	Kind     StmtKind
	Name     *Ident   // let/mutable/set/assign/use target
	Ty       *TypeRef // optional annotation on let/mutable
	Expr     *Expr
	Branches []*Branch // if/elif
	Else     *Block
	Body     *Block // while; Expr holds the condition
}

type Branch struct {
	ID   NodeID
	Span source.Span
	Cond *Expr
	Body *Block
}

type ExprKind uint8

const (
	ExprLit ExprKind = iota
	ExprPath
	ExprCall
	ExprUnary
	ExprBinary
	ExprParen
	ExprUnit
)

type LitKind uint8

const (
	LitInt LitKind = iota
	LitBigInt
	LitDouble
	LitBool
	LitResult
	LitString
)

type Lit struct {
	Kind   LitKind
	Int    int64
	Big    *big.Int
	Double float64
	Bool   bool // also One for LitResult
	Str    string
}

// IsZero reports whether the literal is a numeric zero.
func (l *Lit) IsZero() bool {
	switch l.Kind {
	case LitInt:
		return l.Int == 0
	case LitBigInt:
		return l.Big != nil && l.Big.Sign() == 0
	case LitDouble:
		return l.Double == 0
	}
	return false
}

type Expr struct {
	ID      NodeID
	Span    source.Span
	Kind    ExprKind
	Lit     *Lit
	Path    *Path
	Callee  *Expr
	Args    []*Expr
	Op      Op
	Lhs     *Expr
	Rhs     *Expr
	Operand *Expr // unary operand and paren inner
}

func (n *File) NodeID() NodeID      { return n.ID }
func (n *Namespace) NodeID() NodeID { return n.ID }
func (n *Attr) NodeID() NodeID      { return n.ID }
func (n *Callable) NodeID() NodeID  { return n.ID }
func (n *Param) NodeID() NodeID     { return n.ID }
func (n *TypeRef) NodeID() NodeID   { return n.ID }
func (n *Ident) NodeID() NodeID     { return n.ID }
func (n *Path) NodeID() NodeID      { return n.ID }
func (n *Block) NodeID() NodeID     { return n.ID }
func (n *Stmt) NodeID() NodeID      { return n.ID }
func (n *Branch) NodeID() NodeID    { return n.ID }
func (n *Expr) NodeID() NodeID      { return n.ID }

func (n *File) NodeSpan() source.Span      { return n.Span }
func (n *Namespace) NodeSpan() source.Span { return n.Span }
func (n *Attr) NodeSpan() source.Span      { return n.Span }
func (n *Callable) NodeSpan() source.Span  { return n.Span }
func (n *Param) NodeSpan() source.Span     { return n.Span }
func (n *TypeRef) NodeSpan() source.Span   { return n.Span }
func (n *Ident) NodeSpan() source.Span     { return n.Span }
func (n *Path) NodeSpan() source.Span      { return n.Span }
func (n *Block) NodeSpan() source.Span     { return n.Span }
func (n *Stmt) NodeSpan() source.Span      { return n.Span }
func (n *Branch) NodeSpan() source.Span    { return n.Span }
func (n *Expr) NodeSpan() source.Span      { return n.Span }
