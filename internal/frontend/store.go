package frontend

import (
	"fmt"

	"fortio.org/safecast"

	"qls/internal/ast"
	"qls/internal/diag"
	"qls/internal/fir"
	"qls/internal/hir"
	"qls/internal/source"
)

// AstPackage is the syntax of a unit plus the resolver and type-checker
// annotations keyed by NodeID.
type AstPackage struct {
	Package *ast.Package
	Names   map[ast.NodeID]hir.Res
	Tys     map[ast.NodeID]hir.Ty
}

// CompileUnit is one compiled package.
type CompileUnit struct {
	Package      *hir.Package
	AST          AstPackage
	Sources      *source.SourceMap
	Errors       []diag.Diagnostic
	Dependencies []hir.PackageID
	// Analysis is filled in only when the capability pass runs.
	Analysis *fir.Package
}

// NewCompileUnit returns an empty unit over sources; the incremental
// compiler grows it fragment by fragment.
func NewCompileUnit(sources *source.SourceMap, deps []hir.PackageID) *CompileUnit {
	return &CompileUnit{
		Package: &hir.Package{},
		AST: AstPackage{
			Package: &ast.Package{},
			Names:   make(map[ast.NodeID]hir.Res),
			Tys:     make(map[ast.NodeID]hir.Ty),
		},
		Sources:      sources,
		Dependencies: deps,
	}
}

// PackageStore owns compiled units keyed by dense PackageIDs starting at 1.
type PackageStore struct {
	units []*CompileUnit
	core  hir.PackageID
}

func NewPackageStore() *PackageStore {
	return &PackageStore{}
}

// Insert adds unit and returns its fresh id. Ids are never reused.
func (s *PackageStore) Insert(unit *CompileUnit) hir.PackageID {
	s.units = append(s.units, unit)
	n, err := safecast.Conv[uint32](len(s.units))
	if err != nil {
		panic(fmt.Errorf("package count overflow: %w", err))
	}
	return hir.PackageID(n)
}

func (s *PackageStore) Get(id hir.PackageID) (*CompileUnit, bool) {
	if !id.IsValid() || int(id) > len(s.units) {
		return nil, false
	}
	return s.units[id-1], true
}

func (s *PackageStore) Len() int {
	return len(s.units)
}

// IDs returns the package ids in insertion order.
func (s *PackageStore) IDs() []hir.PackageID {
	out := make([]hir.PackageID, len(s.units))
	for i := range s.units {
		n, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			panic(fmt.Errorf("package count overflow: %w", err))
		}
		out[i] = hir.PackageID(n)
	}
	return out
}

// Core returns the id of the core library, NoPackageID if not seeded.
func (s *PackageStore) Core() hir.PackageID {
	return s.core
}

// Item looks up an absolute item reference.
func (s *PackageStore) Item(id hir.ItemID) (*hir.Item, bool) {
	unit, ok := s.Get(id.Package)
	if !ok {
		return nil, false
	}
	return unit.Package.Item(id.Item)
}

// Globals builds the global name table visible to a unit compiled against
// deps. Items from dependencies are entered with absolute ids.
func (s *PackageStore) Globals(deps []hir.PackageID) *Globals {
	g := NewGlobals()
	for _, dep := range deps {
		unit, ok := s.Get(dep)
		if !ok {
			panic(fmt.Errorf("dependency %s is not in the store", dep))
		}
		for _, it := range unit.Package.Items {
			g.Set(it.Namespace, it.Name, hir.ItemID{Package: dep, Item: it.ID})
		}
	}
	return g
}

// withCore prepends the core library to deps unless it is already there.
func withCore(core hir.PackageID, deps []hir.PackageID) []hir.PackageID {
	if !core.IsValid() {
		return deps
	}
	for _, d := range deps {
		if d == core {
			return deps
		}
	}
	return append([]hir.PackageID{core}, deps...)
}
