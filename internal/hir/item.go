package hir

import (
	"qls/internal/ast"
	"qls/internal/source"
	"qls/internal/target"
)

// Item is a global declaration. Only callables are items; namespaces exist
// as name prefixes in the resolver's globals table.
type Item struct {
	ID        LocalItemID
	Span      source.Span
	Namespace string
	Name      string
	Decl      *CallableDecl
	// Requires is the capability set from @Config(...); CapsNone if absent.
	Requires target.Capabilities
}

// FullName is the dotted name used for fully qualified references.
func (it *Item) FullName() string {
	if it.Namespace == "" {
		return it.Name
	}
	return it.Namespace + "." + it.Name
}

type Ident struct {
	ID   ast.NodeID
	Span source.Span
	Name string
}

type CallableDecl struct {
	ID         ast.NodeID
	Span       source.Span
	Kind       ast.CallableKind
	Name       *Ident
	Params     []*Param
	Output     Ty
	Body       *Block // nil for intrinsics
	Intrinsic  bool
	EntryPoint bool
}

// Ty returns the callable's signature as a value type.
func (d *CallableDecl) Ty() Ty {
	inputs := make([]Ty, len(d.Params))
	for i, p := range d.Params {
		inputs[i] = p.Ty
	}
	return Ty{Kind: TyCallable, Callable: &CallableTy{Kind: d.Kind, Inputs: inputs, Output: d.Output}}
}

// Param is a callable parameter. ID is the NodeID of its name, which is the
// binding that ResLocal refers to.
type Param struct {
	ID   ast.NodeID
	Span source.Span
	Name string
	Ty   Ty
}
