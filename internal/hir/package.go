package hir

import (
	"fmt"

	"fortio.org/safecast"
)

// Package is the lowered form of one compile unit.
type Package struct {
	Items []*Item
	// Stmts are top-level statements; only notebook cells produce them.
	Stmts []*Stmt
}

// AddItem appends it and assigns its LocalItemID.
func (p *Package) AddItem(it *Item) LocalItemID {
	id, err := safecast.Conv[uint32](len(p.Items))
	if err != nil {
		panic(fmt.Errorf("item count overflow: %w", err))
	}
	it.ID = LocalItemID(id)
	p.Items = append(p.Items, it)
	return it.ID
}

// Item looks up an item by its local id.
func (p *Package) Item(id LocalItemID) (*Item, bool) {
	if int(id) >= len(p.Items) {
		return nil, false
	}
	return p.Items[id], true
}

// EntryPoint returns the callable marked @EntryPoint(), if any.
func (p *Package) EntryPoint() (*Item, bool) {
	for _, it := range p.Items {
		if it.Decl != nil && it.Decl.EntryPoint {
			return it, true
		}
	}
	return nil, false
}

// Clone returns a shallow copy whose slices can be appended to without
// affecting p.
func (p *Package) Clone() *Package {
	return &Package{
		Items: append([]*Item(nil), p.Items...),
		Stmts: append([]*Stmt(nil), p.Stmts...),
	}
}
