package langsvc

import (
	"fmt"

	"qls/internal/ast"
	"qls/internal/hir"
)

// GetTy returns the type of a node in user code. A missing entry means the
// node was not typed, which is not an error.
func (c *Compilation) GetTy(id ast.NodeID) (hir.Ty, bool) {
	ty, ok := c.UserUnit().AST.Tys[id]
	return ty, ok
}

// GetRes returns the resolution of a node in user code.
func (c *Compilation) GetRes(id ast.NodeID) (hir.Res, bool) {
	res, ok := c.UserUnit().AST.Names[id]
	return res, ok
}

// ResolveItemRelativeToUserPackage resolves a reference found in user code.
func (c *Compilation) ResolveItemRelativeToUserPackage(id hir.ItemID) (*hir.Item, *hir.Package, hir.ItemID) {
	return c.ResolveItem(c.UserPackageID, id)
}

// ResolveItem resolves id as found in package local: a reference without a
// package points into local itself. The returned ItemID is absolute. A
// reference into a package or item missing from the store panics; a valid
// store holds everything a live reference can reach.
func (c *Compilation) ResolveItem(local hir.PackageID, id hir.ItemID) (*hir.Item, *hir.Package, hir.ItemID) {
	abs := id.Resolve(local)
	unit, ok := c.PackageStore.Get(abs.Package)
	if !ok {
		panic(fmt.Errorf("package %s should exist in store", abs.Package))
	}
	item, ok := unit.Package.Item(abs.Item)
	if !ok {
		panic(fmt.Errorf("item %s should exist", abs))
	}
	return item, unit.Package, abs
}

// ResolveItemRes resolves a name resolution that denotes an item. Calling
// it with any other kind of resolution is a programming error.
func (c *Compilation) ResolveItemRes(local hir.PackageID, res hir.Res) (*hir.Item, hir.ItemID) {
	if res.Kind != hir.ResItem {
		panic(fmt.Errorf("expected an item resolution, got %s", res))
	}
	item, _, abs := c.ResolveItem(local, res.Item)
	return item, abs
}
