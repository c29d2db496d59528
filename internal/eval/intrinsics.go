package eval

import (
	"fmt"
	"math"
	"math/big"
	"sort"

	"qls/internal/source"
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "Unit"
	case KindInt:
		return "Int"
	case KindBigInt:
		return "BigInt"
	case KindDouble:
		return "Double"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindResult:
		return "Result"
	case KindQubit:
		return "Qubit"
	}
	return "?"
}

var intrinsics map[string]intrinsic

func init() {
	intrinsics = map[string]intrinsic{
		"Microsoft.Quantum.Core.Message": func(ev *Evaluator, _ source.Span, args []Value) (Value, error) {
			_, err := fmt.Fprintln(ev.opts.Out, args[0].Str)
			return Unit, err
		},
		"Microsoft.Quantum.Core.Fail": func(_ *Evaluator, span source.Span, args []Value) (Value, error) {
			return Unit, &Error{Span: span, Err: &FailError{Message: args[0].Str}}
		},
		"Microsoft.Quantum.Intrinsic.X": func(ev *Evaluator, _ source.Span, args []Value) (Value, error) {
			ev.sim.flip(args[0].Qubit)
			return Unit, nil
		},
		"Microsoft.Quantum.Intrinsic.Z": func(*Evaluator, source.Span, []Value) (Value, error) {
			// фаза не влияет на базисные состояния
			return Unit, nil
		},
		"Microsoft.Quantum.Intrinsic.M": func(ev *Evaluator, _ source.Span, args []Value) (Value, error) {
			return Result(ev.sim.measure(args[0].Qubit)), nil
		},
		"Microsoft.Quantum.Intrinsic.Reset": func(ev *Evaluator, _ source.Span, args []Value) (Value, error) {
			ev.sim.reset(args[0].Qubit)
			return Unit, nil
		},
		"Microsoft.Quantum.Math.PI": func(*Evaluator, source.Span, []Value) (Value, error) {
			return Double(math.Pi), nil
		},
		"Microsoft.Quantum.Math.E": func(*Evaluator, source.Span, []Value) (Value, error) {
			return Double(math.E), nil
		},
		"Microsoft.Quantum.Math.Sqrt": func(_ *Evaluator, _ source.Span, args []Value) (Value, error) {
			return Double(math.Sqrt(args[0].Double)), nil
		},
		"Microsoft.Quantum.Convert.IntAsDouble": func(_ *Evaluator, _ source.Span, args []Value) (Value, error) {
			return Double(float64(args[0].Int)), nil
		},
		"Microsoft.Quantum.Convert.IntAsBigInt": func(_ *Evaluator, _ source.Span, args []Value) (Value, error) {
			return BigInt(big.NewInt(args[0].Int)), nil
		},
		"Microsoft.Quantum.Diagnostics.DumpMachine": func(ev *Evaluator, _ source.Span, _ []Value) (Value, error) {
			state := ev.sim.dump()
			qs := make([]int, 0, len(state))
			for q := range state {
				qs = append(qs, q)
			}
			sort.Ints(qs)
			for _, q := range qs {
				bit := 0
				if state[q] {
					bit = 1
				}
				if _, err := fmt.Fprintf(ev.opts.Out, "q%d: |%d⟩\n", q, bit); err != nil {
					return Unit, err
				}
			}
			return Unit, nil
		},
	}
}
