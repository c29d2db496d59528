package frontend

import (
	"maps"

	"qls/internal/ast"
	"qls/internal/hir"
)

// Binding is a local variable, parameter or qubit.
type Binding struct {
	ID      ast.NodeID
	Ty      hir.Ty
	Mutable bool
}

// Scope is one level of local bindings.
type Scope struct {
	vars map[string]Binding
}

func NewScope() *Scope {
	return &Scope{vars: make(map[string]Binding)}
}

func (s *Scope) Declare(name string, b Binding) {
	s.vars[name] = b
}

func (s *Scope) Lookup(name string) (Binding, bool) {
	b, ok := s.vars[name]
	return b, ok
}

// Clone returns an independent copy.
func (s *Scope) Clone() *Scope {
	return &Scope{vars: maps.Clone(s.vars)}
}
