// Package eval executes compiled packages classically. Qubits are tracked
// in basis states only, which covers X, Z, measurement and reset.
package eval

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"qls/internal/ast"
	"qls/internal/frontend"
	"qls/internal/hir"
	"qls/internal/source"
)

// Options configure an Evaluator.
type Options struct {
	// Out receives Message and DumpMachine output. Nil discards it.
	Out io.Writer
	// MaxSteps bounds the number of executed statements; 0 means no limit.
	MaxSteps int
}

type Evaluator struct {
	store *frontend.PackageStore
	opts  Options
	sim   *sim
	steps int
}

func New(store *frontend.PackageStore, opts Options) *Evaluator {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Evaluator{store: store, opts: opts, sim: newSim()}
}

// Run is a shortcut for New(store, opts).Run(ctx, pkg).
func Run(ctx context.Context, store *frontend.PackageStore, pkg hir.PackageID, opts Options) (Value, error) {
	return New(store, opts).Run(ctx, pkg)
}

// Run executes the package's top-level statements and returns the value of
// the last one. A package without statements runs its entry point.
func (ev *Evaluator) Run(ctx context.Context, pkg hir.PackageID) (Value, error) {
	unit, ok := ev.store.Get(pkg)
	if !ok {
		return Unit, fmt.Errorf("package %s not found", pkg)
	}
	if len(unit.Package.Stmts) > 0 {
		f := newFrame(pkg)
		v, _, err := ev.stmts(ctx, f, unit.Package.Stmts)
		return v, err
	}
	if entry, ok := unit.Package.EntryPoint(); ok {
		return ev.Call(ctx, hir.ItemID{Package: pkg, Item: entry.ID}, nil)
	}
	return Unit, ErrNoEntry
}

type frame struct {
	pkg  hir.PackageID
	vals map[ast.NodeID]Value
}

func newFrame(pkg hir.PackageID) *frame {
	return &frame{pkg: pkg, vals: make(map[ast.NodeID]Value)}
}

// Call invokes the callable id, which must be absolute.
func (ev *Evaluator) Call(ctx context.Context, id hir.ItemID, args []Value) (Value, error) {
	it, ok := ev.store.Item(id)
	if !ok {
		return Unit, fmt.Errorf("item %s not found", id)
	}
	d := it.Decl
	if len(args) != len(d.Params) {
		return Unit, fmt.Errorf("%s expects %d arguments, got %d", it.FullName(), len(d.Params), len(args))
	}
	if d.Body == nil {
		fn, ok := intrinsics[it.FullName()]
		if !ok {
			return Unit, &Error{Span: d.Span, Err: fmt.Errorf("%w: %s", ErrUnsupported, it.FullName())}
		}
		return fn(ev, d.Span, args)
	}
	f := newFrame(id.Package)
	for i, p := range d.Params {
		f.vals[p.ID] = args[i]
	}
	v, _, err := ev.block(ctx, f, d.Body)
	return v, err
}

func (ev *Evaluator) block(ctx context.Context, f *frame, b *hir.Block) (Value, bool, error) {
	return ev.stmts(ctx, f, b.Stmts)
}

// stmts runs a statement list. The bool result reports an executed return.
func (ev *Evaluator) stmts(ctx context.Context, f *frame, list []*hir.Stmt) (Value, bool, error) {
	var qubits []int
	defer func() {
		for _, q := range qubits {
			ev.sim.release(q)
		}
	}()

	last := Unit
	for _, st := range list {
		if err := ev.step(ctx); err != nil {
			return Unit, false, err
		}
		last = Unit
		switch st.Kind {
		case hir.StmtLocal:
			v, err := ev.expr(ctx, f, st.Expr)
			if err != nil {
				return Unit, false, err
			}
			f.vals[st.Name.ID] = v
		case hir.StmtAssign:
			v, err := ev.expr(ctx, f, st.Expr)
			if err != nil {
				return Unit, false, err
			}
			f.vals[st.Target.Local] = v
		case hir.StmtQubit:
			q := ev.sim.alloc()
			qubits = append(qubits, q)
			f.vals[st.Name.ID] = Value{Kind: KindQubit, Qubit: q}
		case hir.StmtReturn:
			v, err := ev.expr(ctx, f, st.Expr)
			return v, true, err
		case hir.StmtIf:
			v, ret, err := ev.ifStmt(ctx, f, st)
			if err != nil || ret {
				return v, ret, err
			}
		case hir.StmtWhile:
			for {
				cond, err := ev.expr(ctx, f, st.Expr)
				if err != nil {
					return Unit, false, err
				}
				if !cond.Bool {
					break
				}
				v, ret, err := ev.block(ctx, f, st.Body)
				if err != nil || ret {
					return v, ret, err
				}
			}
		case hir.StmtExpr, hir.StmtSemi:
			v, err := ev.expr(ctx, f, st.Expr)
			if err != nil {
				return Unit, false, err
			}
			if st.Kind == hir.StmtExpr {
				last = v
			}
		}
	}
	return last, false, nil
}

func (ev *Evaluator) ifStmt(ctx context.Context, f *frame, st *hir.Stmt) (Value, bool, error) {
	for _, br := range st.Branches {
		cond, err := ev.expr(ctx, f, br.Cond)
		if err != nil {
			return Unit, false, err
		}
		if cond.Bool {
			return ev.block(ctx, f, br.Body)
		}
	}
	if st.Else != nil {
		return ev.block(ctx, f, st.Else)
	}
	return Unit, false, nil
}

func (ev *Evaluator) step(ctx context.Context) error {
	ev.steps++
	if ev.opts.MaxSteps > 0 && ev.steps > ev.opts.MaxSteps {
		return ErrStepLimit
	}
	if ev.steps%1024 == 0 {
		return ctx.Err()
	}
	return nil
}

func (ev *Evaluator) expr(ctx context.Context, f *frame, e *hir.Expr) (Value, error) {
	switch e.Kind {
	case hir.ExprLit:
		return litValue(e.Lit), nil
	case hir.ExprUnit:
		return Unit, nil
	case hir.ExprVar:
		if e.Res.Kind != hir.ResLocal {
			return Unit, &Error{Span: e.Span, Err: fmt.Errorf("%s is not a value", e.Res)}
		}
		v, ok := f.vals[e.Res.Local]
		if !ok {
			return Unit, &Error{Span: e.Span, Err: fmt.Errorf("unbound local %d", e.Res.Local)}
		}
		return v, nil
	case hir.ExprCall:
		return ev.call(ctx, f, e)
	case hir.ExprUnary:
		v, err := ev.expr(ctx, f, e.Operand)
		if err != nil {
			return Unit, err
		}
		return unary(e.Op, v), nil
	case hir.ExprBinary:
		return ev.binary(ctx, f, e)
	}
	return Unit, &Error{Span: e.Span, Err: fmt.Errorf("cannot evaluate %s", e.Kind)}
}

func (ev *Evaluator) call(ctx context.Context, f *frame, e *hir.Expr) (Value, error) {
	if e.Callee.Kind != hir.ExprVar || e.Callee.Res.Kind != hir.ResItem {
		return Unit, &Error{Span: e.Span, Err: fmt.Errorf("callee is not an item")}
	}
	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := ev.expr(ctx, f, a)
		if err != nil {
			return Unit, err
		}
		args[i] = v
	}
	// ссылка без пакета относится к пакету вызывающего
	return ev.Call(ctx, e.Callee.Res.Item.Resolve(f.pkg), args)
}

func litValue(l *ast.Lit) Value {
	switch l.Kind {
	case ast.LitInt:
		return Int(l.Int)
	case ast.LitBigInt:
		return BigInt(new(big.Int).Set(l.Big))
	case ast.LitDouble:
		return Double(l.Double)
	case ast.LitBool:
		return Bool(l.Bool)
	case ast.LitResult:
		return Result(l.Bool)
	case ast.LitString:
		return String(l.Str)
	}
	return Unit
}

func unary(op ast.Op, v Value) Value {
	if op == ast.OpNot {
		return Bool(!v.Bool)
	}
	switch v.Kind {
	case KindInt:
		return Int(-v.Int)
	case KindBigInt:
		return BigInt(new(big.Int).Neg(v.Big))
	case KindDouble:
		return Double(-v.Double)
	}
	return v
}

func (ev *Evaluator) binary(ctx context.Context, f *frame, e *hir.Expr) (Value, error) {
	lhs, err := ev.expr(ctx, f, e.Lhs)
	if err != nil {
		return Unit, err
	}
	switch e.Op {
	case ast.OpAnd:
		if !lhs.Bool {
			return lhs, nil
		}
		return ev.expr(ctx, f, e.Rhs)
	case ast.OpOr:
		if lhs.Bool {
			return lhs, nil
		}
		return ev.expr(ctx, f, e.Rhs)
	}
	rhs, err := ev.expr(ctx, f, e.Rhs)
	if err != nil {
		return Unit, err
	}
	switch e.Op {
	case ast.OpEq:
		return Bool(lhs.Equal(rhs)), nil
	case ast.OpNe:
		return Bool(!lhs.Equal(rhs)), nil
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return Bool(compare(e.Op, lhs, rhs)), nil
	}
	v, err := arith(e.Op, lhs, rhs)
	if err != nil {
		return Unit, &Error{Span: e.Span, Err: err}
	}
	return v, nil
}

func compare(op ast.Op, lhs, rhs Value) bool {
	var c int
	switch lhs.Kind {
	case KindInt:
		c = cmpOrdered(lhs.Int, rhs.Int)
	case KindBigInt:
		c = lhs.Big.Cmp(rhs.Big)
	case KindDouble:
		c = cmpOrdered(lhs.Double, rhs.Double)
	}
	switch op {
	case ast.OpLt:
		return c < 0
	case ast.OpLe:
		return c <= 0
	case ast.OpGt:
		return c > 0
	}
	return c >= 0
}

func cmpOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func arith(op ast.Op, lhs, rhs Value) (Value, error) {
	switch lhs.Kind {
	case KindInt:
		a, b := lhs.Int, rhs.Int
		switch op {
		case ast.OpAdd:
			return Int(a + b), nil
		case ast.OpSub:
			return Int(a - b), nil
		case ast.OpMul:
			return Int(a * b), nil
		case ast.OpDiv, ast.OpMod:
			if b == 0 {
				return Unit, ErrDivisionByZero
			}
			if op == ast.OpDiv {
				return Int(a / b), nil
			}
			return Int(a % b), nil
		}
	case KindBigInt:
		a, b := lhs.Big, rhs.Big
		r := new(big.Int)
		switch op {
		case ast.OpAdd:
			return BigInt(r.Add(a, b)), nil
		case ast.OpSub:
			return BigInt(r.Sub(a, b)), nil
		case ast.OpMul:
			return BigInt(r.Mul(a, b)), nil
		case ast.OpDiv, ast.OpMod:
			if b.Sign() == 0 {
				return Unit, ErrDivisionByZero
			}
			if op == ast.OpDiv {
				return BigInt(r.Quo(a, b)), nil
			}
			return BigInt(r.Rem(a, b)), nil
		}
	case KindDouble:
		a, b := lhs.Double, rhs.Double
		switch op {
		case ast.OpAdd:
			return Double(a + b), nil
		case ast.OpSub:
			return Double(a - b), nil
		case ast.OpMul:
			return Double(a * b), nil
		case ast.OpDiv:
			return Double(a / b), nil
		}
	case KindString:
		if op == ast.OpAdd {
			return String(lhs.Str + rhs.Str), nil
		}
	}
	return Unit, fmt.Errorf("cannot apply %s to %s", op, lhs.Kind)
}

type intrinsic func(ev *Evaluator, span source.Span, args []Value) (Value, error)
