// Package ast defines the syntax tree produced by internal/syntax.
//
// Every node carries a NodeID that is unique within a package. Name
// resolution and type inference results are keyed by NodeID, so the ids of
// a package stay dense and stable for as long as the package lives.
package ast

// NodeID identifies a syntax node within a package.
type NodeID uint32

// NoNodeID marks the absence of a node (zero is sentinel).
const NoNodeID NodeID = 0

// IsValid returns true if the ID is valid (non-zero).
func (id NodeID) IsValid() bool { return id != NoNodeID }

// IDGen hands out NodeIDs. The zero value starts at 1.
type IDGen struct {
	last NodeID
}

// NewIDGen continues numbering after last.
func NewIDGen(last NodeID) *IDGen {
	return &IDGen{last: last}
}

// Next returns a fresh id.
func (g *IDGen) Next() NodeID {
	g.last++
	return g.last
}

// Last returns the most recently issued id.
func (g *IDGen) Last() NodeID {
	return g.last
}
