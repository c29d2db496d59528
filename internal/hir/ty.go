package hir

import (
	"strings"

	"qls/internal/ast"
)

type Prim uint8

const (
	PrimUnit Prim = iota
	PrimInt
	PrimBigInt
	PrimDouble
	PrimBool
	PrimString
	PrimQubit
	PrimResult
)

var primNames = [...]string{
	PrimUnit:   "Unit",
	PrimInt:    "Int",
	PrimBigInt: "BigInt",
	PrimDouble: "Double",
	PrimBool:   "Bool",
	PrimString: "String",
	PrimQubit:  "Qubit",
	PrimResult: "Result",
}

func (p Prim) String() string {
	if int(p) < len(primNames) {
		return primNames[p]
	}
	return "?"
}

// PrimByName maps a type name as written in source to a primitive.
func PrimByName(name string) (Prim, bool) {
	for i, n := range primNames {
		if n == name {
			return Prim(i), true
		}
	}
	return 0, false
}

type TyKind uint8

const (
	// TyErr is the type of expressions that failed to type-check.
	// It unifies with everything so one error does not cascade.
	TyErr TyKind = iota
	TyPrim
	TyCallable
)

// Ty is a value type. The zero value is TyErr.
type Ty struct {
	Kind     TyKind
	Prim     Prim
	Callable *CallableTy
}

type CallableTy struct {
	Kind   ast.CallableKind
	Inputs []Ty
	Output Ty
}

var (
	Err    = Ty{Kind: TyErr}
	Unit   = PrimTy(PrimUnit)
	Int    = PrimTy(PrimInt)
	BigInt = PrimTy(PrimBigInt)
	Double = PrimTy(PrimDouble)
	Bool   = PrimTy(PrimBool)
	String = PrimTy(PrimString)
	Qubit  = PrimTy(PrimQubit)
	Result = PrimTy(PrimResult)
)

func PrimTy(p Prim) Ty {
	return Ty{Kind: TyPrim, Prim: p}
}

func (t Ty) IsErr() bool { return t.Kind == TyErr }

// Is reports whether t is the primitive p.
func (t Ty) Is(p Prim) bool { return t.Kind == TyPrim && t.Prim == p }

// Equal compares types structurally. TyErr equals anything.
func (t Ty) Equal(o Ty) bool {
	if t.Kind == TyErr || o.Kind == TyErr {
		return true
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case TyPrim:
		return t.Prim == o.Prim
	case TyCallable:
		a, b := t.Callable, o.Callable
		if a.Kind != b.Kind || len(a.Inputs) != len(b.Inputs) || !a.Output.Equal(b.Output) {
			return false
		}
		for i := range a.Inputs {
			if !a.Inputs[i].Equal(b.Inputs[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (t Ty) String() string {
	switch t.Kind {
	case TyPrim:
		return t.Prim.String()
	case TyCallable:
		var sb strings.Builder
		sb.WriteByte('(')
		for i, in := range t.Callable.Inputs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(in.String())
		}
		sb.WriteByte(')')
		if t.Callable.Kind == ast.CallableOperation {
			sb.WriteString(" => ")
		} else {
			sb.WriteString(" -> ")
		}
		sb.WriteString(t.Callable.Output.String())
		return sb.String()
	}
	return "?"
}
