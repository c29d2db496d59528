// Package fir is the analysis form of a package: a flat arena of blocks,
// statements and expressions where every expression carries its compute
// kind, telling whether its value is known before the program runs on a
// quantum target or only at run time.
package fir

// ExprID identifies an expression in Package.Exprs.
type ExprID uint32

// StmtID identifies a statement in Package.Stmts.
type StmtID uint32

// BlockID identifies a block in Package.Blocks.
type BlockID uint32

// Invalid ID constants (zero is sentinel).
const (
	NoExprID  ExprID  = 0
	NoStmtID  StmtID  = 0
	NoBlockID BlockID = 0
)

// IsValid returns true if the ID is valid (non-zero).
func (id ExprID) IsValid() bool  { return id != NoExprID }
func (id StmtID) IsValid() bool  { return id != NoStmtID }
func (id BlockID) IsValid() bool { return id != NoBlockID }

// ComputeKind tells whether a value is known statically.
type ComputeKind uint8

const (
	Static ComputeKind = iota
	// Dynamic values depend on measurement results.
	Dynamic
)

func (k ComputeKind) String() string {
	if k == Dynamic {
		return "dynamic"
	}
	return "static"
}

// Join returns Dynamic if either side is.
func (k ComputeKind) Join(o ComputeKind) ComputeKind {
	if k == Dynamic || o == Dynamic {
		return Dynamic
	}
	return Static
}
