package frontend

import (
	"maps"

	"qls/internal/hir"
)

// Globals maps namespace -> name -> item. Free items live in the root
// namespace "".
type Globals struct {
	namespaces map[string]map[string]hir.ItemID
}

func NewGlobals() *Globals {
	return &Globals{namespaces: make(map[string]map[string]hir.ItemID)}
}

// Set binds name in ns, replacing any previous binding.
func (g *Globals) Set(ns, name string, id hir.ItemID) {
	names, ok := g.namespaces[ns]
	if !ok {
		names = make(map[string]hir.ItemID)
		g.namespaces[ns] = names
	}
	names[name] = id
}

// DeclareNamespace makes ns known even if it ends up with no items.
func (g *Globals) DeclareNamespace(ns string) {
	if _, ok := g.namespaces[ns]; !ok {
		g.namespaces[ns] = make(map[string]hir.ItemID)
	}
}

func (g *Globals) Lookup(ns, name string) (hir.ItemID, bool) {
	id, ok := g.namespaces[ns][name]
	return id, ok
}

func (g *Globals) HasNamespace(ns string) bool {
	_, ok := g.namespaces[ns]
	return ok
}

// Clone returns a deep copy.
func (g *Globals) Clone() *Globals {
	out := &Globals{namespaces: make(map[string]map[string]hir.ItemID, len(g.namespaces))}
	for ns, names := range g.namespaces {
		out.namespaces[ns] = maps.Clone(names)
	}
	return out
}
