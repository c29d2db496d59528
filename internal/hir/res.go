package hir

import (
	"fmt"

	"qls/internal/ast"
)

type ResKind uint8

const (
	// ResErr marks a name that failed to resolve.
	ResErr ResKind = iota
	// ResItem points to a global item, possibly in another package.
	ResItem
	// ResLocal points to a parameter or local binding by its NodeID.
	ResLocal
	// ResPrimTy names a primitive type.
	ResPrimTy
)

func (k ResKind) String() string {
	switch k {
	case ResErr:
		return "err"
	case ResItem:
		return "item"
	case ResLocal:
		return "local"
	case ResPrimTy:
		return "prim"
	}
	return "unknown"
}

// Res is the result of resolving a name.
type Res struct {
	Kind  ResKind
	Item  ItemID
	Local ast.NodeID
	Prim  Prim
}

func ItemRes(id ItemID) Res      { return Res{Kind: ResItem, Item: id} }
func LocalRes(id ast.NodeID) Res { return Res{Kind: ResLocal, Local: id} }
func PrimTyRes(p Prim) Res       { return Res{Kind: ResPrimTy, Prim: p} }

func (r Res) String() string {
	switch r.Kind {
	case ResItem:
		return fmt.Sprintf("item(%s)", r.Item)
	case ResLocal:
		return fmt.Sprintf("local(%d)", r.Local)
	case ResPrimTy:
		return fmt.Sprintf("prim(%s)", r.Prim)
	}
	return "err"
}
