package ast

// Inspect traverses the tree rooted at n in depth-first order. If f returns
// false, the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *File:
		for _, ns := range n.Namespaces {
			Inspect(ns, f)
		}
		for _, it := range n.Items {
			Inspect(it, f)
		}
		for _, st := range n.Stmts {
			Inspect(st, f)
		}
	case *Namespace:
		Inspect(n.Name, f)
		for _, p := range n.Opens {
			Inspect(p, f)
		}
		for _, it := range n.Items {
			Inspect(it, f)
		}
	case *Attr:
		Inspect(n.Name, f)
		if n.Arg != nil {
			Inspect(n.Arg, f)
		}
	case *Callable:
		for _, a := range n.Attrs {
			Inspect(a, f)
		}
		Inspect(n.Name, f)
		for _, p := range n.Params {
			Inspect(p, f)
		}
		if n.Output != nil {
			Inspect(n.Output, f)
		}
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *Param:
		Inspect(n.Name, f)
		Inspect(n.Ty, f)
	case *Path:
		for _, s := range n.Segments {
			Inspect(s, f)
		}
	case *Block:
		for _, st := range n.Stmts {
			Inspect(st, f)
		}
	case *Stmt:
		if n.Name != nil {
			Inspect(n.Name, f)
		}
		if n.Ty != nil {
			Inspect(n.Ty, f)
		}
		if n.Expr != nil {
			Inspect(n.Expr, f)
		}
		for _, b := range n.Branches {
			Inspect(b, f)
		}
		if n.Else != nil {
			Inspect(n.Else, f)
		}
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *Branch:
		Inspect(n.Cond, f)
		Inspect(n.Body, f)
	case *Expr:
		switch n.Kind {
		case ExprPath:
			Inspect(n.Path, f)
		case ExprCall:
			Inspect(n.Callee, f)
			for _, a := range n.Args {
				Inspect(a, f)
			}
		case ExprUnary, ExprParen:
			Inspect(n.Operand, f)
		case ExprBinary:
			Inspect(n.Lhs, f)
			Inspect(n.Rhs, f)
		}
	}
}
