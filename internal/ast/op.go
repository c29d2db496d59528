package ast

type Op uint8

const (
	OpNone Op = iota
	OpNeg
	OpNot
	OpMul
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd
	OpOr
)

var opText = map[Op]string{
	OpNeg: "-", OpNot: "not",
	OpMul: "*", OpDiv: "/", OpMod: "%",
	OpAdd: "+", OpSub: "-",
	OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpEq: "==", OpNe: "!=",
	OpAnd: "and", OpOr: "or",
}

var binaryOps = map[string]Op{
	"*": OpMul, "/": OpDiv, "%": OpMod,
	"+": OpAdd, "-": OpSub,
	"<": OpLt, "<=": OpLe, ">": OpGt, ">=": OpGe,
	"==": OpEq, "!=": OpNe,
	"and": OpAnd, "or": OpOr,
}

func (o Op) String() string {
	if s, ok := opText[o]; ok {
		return s
	}
	return "?"
}

// BinaryOp maps operator text to its Op.
func BinaryOp(text string) (Op, bool) {
	op, ok := binaryOps[text]
	return op, ok
}

// IsArithmetic reports whether the op computes a number from numbers.
func (o Op) IsArithmetic() bool {
	switch o {
	case OpMul, OpDiv, OpMod, OpAdd, OpSub, OpNeg:
		return true
	}
	return false
}

// IsComparison reports whether the op yields Bool from ordered or equatable operands.
func (o Op) IsComparison() bool {
	switch o {
	case OpLt, OpLe, OpGt, OpGe, OpEq, OpNe:
		return true
	}
	return false
}

// IsLogical reports whether the op works on Bool operands.
func (o Op) IsLogical() bool {
	return o == OpAnd || o == OpOr || o == OpNot
}
