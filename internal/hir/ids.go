// Package hir is the resolved, typed representation of a compiled package.
//
// Items are addressed by ItemID. A reference whose Package is NoPackageID
// points into the package the reference was found in, so resolving an
// ItemID always needs the originating PackageID as well (see ItemID.Resolve).
// Expression and binding ids reuse the ast NodeIDs of the syntax they were
// lowered from, which keeps the annotation tables keyed by a single id space.
package hir

import "fmt"

// PackageID identifies a package within a package store.
type PackageID uint32

// LocalItemID is the index of an item inside Package.Items.
type LocalItemID uint32

// NoPackageID marks an item reference local to its originating package.
const NoPackageID PackageID = 0

// IsValid returns true if the ID is valid (non-zero).
func (id PackageID) IsValid() bool { return id != NoPackageID }

func (id PackageID) String() string {
	if !id.IsValid() {
		return "local"
	}
	return fmt.Sprintf("pkg%d", uint32(id))
}

// ItemID references a declaration, optionally qualified with its package.
type ItemID struct {
	Package PackageID
	Item    LocalItemID
}

// LocalItem builds a package-relative reference.
func LocalItem(item LocalItemID) ItemID {
	return ItemID{Item: item}
}

// IsLocal reports whether the reference is relative to its origin.
func (id ItemID) IsLocal() bool { return !id.Package.IsValid() }

// Resolve returns the absolute form of id as seen from package origin.
func (id ItemID) Resolve(origin PackageID) ItemID {
	if id.IsLocal() {
		id.Package = origin
	}
	return id
}

func (id ItemID) String() string {
	return fmt.Sprintf("%s:item%d", id.Package, uint32(id.Item))
}
