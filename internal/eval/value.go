package eval

import (
	"fmt"
	"math/big"
	"strconv"
)

type Kind uint8

const (
	KindUnit Kind = iota
	KindInt
	KindBigInt
	KindDouble
	KindBool
	KindString
	KindResult
	KindQubit
)

// Value is a run-time value. Results store One as Bool=true.
type Value struct {
	Kind   Kind
	Int    int64
	Big    *big.Int
	Double float64
	Bool   bool
	Str    string
	Qubit  int
}

var Unit = Value{Kind: KindUnit}

func Int(v int64) Value       { return Value{Kind: KindInt, Int: v} }
func BigInt(v *big.Int) Value { return Value{Kind: KindBigInt, Big: v} }
func Double(v float64) Value  { return Value{Kind: KindDouble, Double: v} }
func Bool(v bool) Value       { return Value{Kind: KindBool, Bool: v} }
func String(v string) Value   { return Value{Kind: KindString, Str: v} }
func Result(one bool) Value   { return Value{Kind: KindResult, Bool: one} }

// Equal compares values of the same kind.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindUnit:
		return true
	case KindInt:
		return v.Int == o.Int
	case KindBigInt:
		return v.Big.Cmp(o.Big) == 0
	case KindDouble:
		return v.Double == o.Double
	case KindBool, KindResult:
		return v.Bool == o.Bool
	case KindString:
		return v.Str == o.Str
	case KindQubit:
		return v.Qubit == o.Qubit
	}
	return false
}

func (v Value) String() string {
	switch v.Kind {
	case KindUnit:
		return "()"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindBigInt:
		return v.Big.String() + "L"
	case KindDouble:
		return strconv.FormatFloat(v.Double, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindString:
		return v.Str
	case KindResult:
		if v.Bool {
			return "One"
		}
		return "Zero"
	case KindQubit:
		return fmt.Sprintf("Qubit%d", v.Qubit)
	}
	return "?"
}
