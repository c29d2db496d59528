package hir

import (
	"fmt"
	"io"
	"strings"

	"qls/internal/ast"
)

// Printer dumps a package in a readable text form.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Dump writes pkg to w.
func Dump(w io.Writer, pkg *Package) error {
	p := NewPrinter(w)
	p.PrintPackage(pkg)
	return p.err
}

func (p *Printer) PrintPackage(pkg *Package) {
	for _, it := range pkg.Items {
		p.printItem(it)
	}
	if len(pkg.Stmts) > 0 {
		p.printf("stmts:\n")
		p.indent++
		for _, st := range pkg.Stmts {
			p.printStmt(st)
		}
		p.indent--
	}
}

func (p *Printer) printItem(it *Item) {
	d := it.Decl
	params := make([]string, len(d.Params))
	for i, prm := range d.Params {
		params[i] = fmt.Sprintf("%s: %s", prm.Name, prm.Ty)
	}
	p.printf("item %d %s %s(%s) : %s", it.ID, d.Kind, it.FullName(), strings.Join(params, ", "), d.Output)
	if d.EntryPoint {
		p.printf(" @EntryPoint")
	}
	if it.Requires != 0 {
		p.printf(" @Config(%s)", it.Requires)
	}
	if d.Intrinsic {
		p.printf(" intrinsic\n")
		return
	}
	p.printf("\n")
	p.printBlock(d.Body)
}

func (p *Printer) printBlock(b *Block) {
	p.indent++
	for _, st := range b.Stmts {
		p.printStmt(st)
	}
	p.indent--
}

func (p *Printer) printStmt(st *Stmt) {
	p.line()
	switch st.Kind {
	case StmtLocal:
		kw := "let"
		if st.Mutable {
			kw = "mutable"
		}
		p.printf("%s %s = %s\n", kw, st.Name.Name, p.expr(st.Expr))
	case StmtQubit:
		p.printf("use %s\n", st.Name.Name)
	case StmtAssign:
		p.printf("set %s = %s\n", st.Name.Name, p.expr(st.Expr))
	case StmtReturn:
		p.printf("return %s\n", p.expr(st.Expr))
	case StmtIf:
		for i, br := range st.Branches {
			if i > 0 {
				p.line()
				p.printf("elif ")
			} else {
				p.printf("if ")
			}
			p.printf("%s\n", p.expr(br.Cond))
			p.printBlock(br.Body)
		}
		if st.Else != nil {
			p.line()
			p.printf("else\n")
			p.printBlock(st.Else)
		}
	case StmtWhile:
		p.printf("while %s\n", p.expr(st.Expr))
		p.printBlock(st.Body)
	case StmtExpr:
		p.printf("%s\n", p.expr(st.Expr))
	case StmtSemi:
		p.printf("%s;\n", p.expr(st.Expr))
	case StmtEmpty:
		p.printf(";\n")
	}
}

func (p *Printer) expr(e *Expr) string {
	var s string
	switch e.Kind {
	case ExprLit:
		s = litString(e.Lit)
	case ExprVar:
		s = e.Res.String()
	case ExprUnit:
		s = "()"
	case ExprCall:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = p.expr(a)
		}
		s = fmt.Sprintf("%s(%s)", p.expr(e.Callee), strings.Join(args, ", "))
	case ExprUnary:
		s = fmt.Sprintf("%s %s", e.Op, p.expr(e.Operand))
	case ExprBinary:
		s = fmt.Sprintf("(%s %s %s)", p.expr(e.Lhs), e.Op, p.expr(e.Rhs))
	}
	return s + ":" + e.Ty.String()
}

func litString(l *ast.Lit) string {
	switch l.Kind {
	case ast.LitInt:
		return fmt.Sprint(l.Int)
	case ast.LitBigInt:
		return l.Big.String() + "L"
	case ast.LitDouble:
		return fmt.Sprint(l.Double)
	case ast.LitBool:
		return fmt.Sprint(l.Bool)
	case ast.LitResult:
		if l.Bool {
			return "One"
		}
		return "Zero"
	case ast.LitString:
		return fmt.Sprintf("%q", l.Str)
	}
	return "?"
}

func (p *Printer) line() {
	p.printf("%s", strings.Repeat("  ", p.indent))
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
