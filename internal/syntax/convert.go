package syntax

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/alecthomas/participle/v2/lexer"

	"qls/internal/ast"
	"qls/internal/diag"
	"qls/internal/source"
)

// converter turns the participle parse tree into ast nodes with ids and
// global spans.
type converter struct {
	base  uint32
	ids   *ast.IDGen
	diags []diag.Diagnostic
}

func (c *converter) offset(pos lexer.Position) uint32 {
	off, err := safecast.Conv[uint32](pos.Offset)
	if err != nil {
		panic(fmt.Errorf("token offset overflow: %w", err))
	}
	return c.base + off
}

func (c *converter) span(pos, end lexer.Position) source.Span {
	return source.Span{Lo: c.offset(pos), Hi: c.offset(end)}
}

func (c *converter) file(name string, raw *rawFile, whole source.Span) *ast.File {
	f := &ast.File{ID: c.ids.Next(), Span: whole, Name: name}
	for _, top := range raw.Decls {
		switch {
		case top.Namespace != nil:
			f.Namespaces = append(f.Namespaces, c.namespace(top.Namespace))
		case top.Callable != nil:
			f.Items = append(f.Items, c.callable(top.Callable))
		case top.Stmt != nil:
			f.Stmts = append(f.Stmts, c.stmt(top.Stmt))
		}
	}
	return f
}

func (c *converter) namespace(raw *rawNamespace) *ast.Namespace {
	ns := &ast.Namespace{
		ID:   c.ids.Next(),
		Span: c.span(raw.Pos, raw.EndPos),
		Name: c.path(raw.Name),
	}
	for _, m := range raw.Members {
		switch {
		case m.Open != nil:
			ns.Opens = append(ns.Opens, c.path(m.Open))
		case m.Callable != nil:
			ns.Items = append(ns.Items, c.callable(m.Callable))
		}
	}
	return ns
}

func (c *converter) callable(raw *rawCallable) *ast.Callable {
	decl := &ast.Callable{
		ID:        c.ids.Next(),
		Span:      c.span(raw.Pos, raw.EndPos),
		Kind:      ast.CallableFunction,
		Intrinsic: raw.Intrinsic != "",
	}
	if raw.Kind == "operation" {
		decl.Kind = ast.CallableOperation
	}
	for _, a := range raw.Attrs {
		attr := &ast.Attr{ID: c.ids.Next(), Span: c.span(a.Pos, a.EndPos), Name: c.ident(a.Name)}
		if a.Arg != nil {
			attr.Arg = c.ident(a.Arg)
		}
		decl.Attrs = append(decl.Attrs, attr)
	}
	decl.Name = c.ident(raw.Name)
	for _, p := range raw.Params {
		decl.Params = append(decl.Params, &ast.Param{
			ID:   c.ids.Next(),
			Span: c.span(p.Pos, p.EndPos),
			Name: c.ident(p.Name),
			Ty:   c.typeRef(p.Ty),
		})
	}
	decl.Output = c.typeRef(raw.Output)
	if raw.Body != nil {
		decl.Body = c.block(raw.Body)
	}
	return decl
}

func (c *converter) typeRef(raw *rawType) *ast.TypeRef {
	name := raw.Name
	if name == "(" {
		name = "Unit"
	}
	return &ast.TypeRef{ID: c.ids.Next(), Span: c.span(raw.Pos, raw.EndPos), Name: name}
}

func (c *converter) ident(raw *rawIdent) *ast.Ident {
	return &ast.Ident{ID: c.ids.Next(), Span: c.span(raw.Pos, raw.EndPos), Name: raw.Name}
}

func (c *converter) path(raw *rawPath) *ast.Path {
	p := &ast.Path{ID: c.ids.Next(), Span: c.span(raw.Pos, raw.EndPos)}
	for _, seg := range raw.Segments {
		p.Segments = append(p.Segments, c.ident(seg))
	}
	return p
}

func (c *converter) block(raw *rawBlock) *ast.Block {
	b := &ast.Block{ID: c.ids.Next(), Span: c.span(raw.Pos, raw.EndPos)}
	for _, st := range raw.Stmts {
		b.Stmts = append(b.Stmts, c.stmt(st))
	}
	return b
}

func (c *converter) stmt(raw *rawStmt) *ast.Stmt {
	st := &ast.Stmt{ID: c.ids.Next(), Span: c.span(raw.Pos, raw.EndPos)}
	switch {
	case raw.Let != nil, raw.Mutable != nil:
		st.Kind = ast.StmtLet
		b := raw.Let
		if raw.Mutable != nil {
			st.Kind = ast.StmtMutable
			b = raw.Mutable
		}
		st.Name = c.ident(b.Name)
		if b.Ty != nil {
			st.Ty = c.typeRef(b.Ty)
		}
		st.Expr = c.expr(b.Value)
	case raw.Set != nil:
		st.Kind = ast.StmtSet
		st.Name = c.ident(raw.Set.Name)
		st.Expr = c.expr(raw.Set.Value)
	case raw.Assign != nil:
		st.Kind = ast.StmtAssign
		st.Name = c.ident(raw.Assign.Name)
		st.Expr = c.expr(raw.Assign.Value)
	case raw.Use != nil:
		st.Kind = ast.StmtUse
		st.Name = c.ident(raw.Use)
	case raw.Return != nil:
		st.Kind = ast.StmtReturn
		st.Expr = c.expr(raw.Return)
	case raw.If != nil:
		st.Kind = ast.StmtIf
		st.Branches = append(st.Branches, &ast.Branch{
			ID:   c.ids.Next(),
			Span: source.Span{Lo: c.offset(raw.If.Pos), Hi: c.offset(raw.If.Body.EndPos)},
			Cond: c.expr(raw.If.Cond),
			Body: c.block(raw.If.Body),
		})
		for _, e := range raw.If.Elifs {
			st.Branches = append(st.Branches, &ast.Branch{
				ID:   c.ids.Next(),
				Span: c.span(e.Pos, e.EndPos),
				Cond: c.expr(e.Cond),
				Body: c.block(e.Body),
			})
		}
		if raw.If.Else != nil {
			st.Else = c.block(raw.If.Else)
		}
	case raw.While != nil:
		st.Kind = ast.StmtWhile
		st.Expr = c.expr(raw.While.Cond)
		st.Body = c.block(raw.While.Body)
	case raw.Empty != "":
		st.Kind = ast.StmtEmpty
	default:
		st.Kind = ast.StmtExpr
		if raw.Semi != "" {
			st.Kind = ast.StmtSemi
		}
		st.Expr = c.expr(raw.Expr)
	}
	return st
}

func (c *converter) binary(op string, lhs, rhs *ast.Expr) *ast.Expr {
	o, ok := ast.BinaryOp(op)
	if !ok {
		panic(fmt.Errorf("grammar produced unknown operator %q", op))
	}
	return &ast.Expr{
		ID:   c.ids.Next(),
		Span: lhs.Span.Cover(rhs.Span),
		Kind: ast.ExprBinary,
		Op:   o,
		Lhs:  lhs,
		Rhs:  rhs,
	}
}

func (c *converter) expr(raw *rawExpr) *ast.Expr {
	e := c.and(raw.Left)
	for _, t := range raw.Rest {
		e = c.binary(t.Op, e, c.and(t.Right))
	}
	return e
}

func (c *converter) and(raw *rawAnd) *ast.Expr {
	e := c.cmp(raw.Left)
	for _, t := range raw.Rest {
		e = c.binary(t.Op, e, c.cmp(t.Right))
	}
	return e
}

func (c *converter) cmp(raw *rawCmp) *ast.Expr {
	e := c.add(raw.Left)
	if raw.Op != "" {
		e = c.binary(raw.Op, e, c.add(raw.Right))
	}
	return e
}

func (c *converter) add(raw *rawAdd) *ast.Expr {
	e := c.mul(raw.Left)
	for _, t := range raw.Rest {
		e = c.binary(t.Op, e, c.mul(t.Right))
	}
	return e
}

func (c *converter) mul(raw *rawMul) *ast.Expr {
	e := c.unary(raw.Left)
	for _, t := range raw.Rest {
		e = c.binary(t.Op, e, c.unary(t.Right))
	}
	return e
}

func (c *converter) unary(raw *rawUnary) *ast.Expr {
	if raw.Postfix != nil {
		return c.postfix(raw.Postfix)
	}
	op := ast.OpNeg
	if raw.Op == "not" {
		op = ast.OpNot
	}
	return &ast.Expr{
		ID:      c.ids.Next(),
		Span:    c.span(raw.Pos, raw.EndPos),
		Kind:    ast.ExprUnary,
		Op:      op,
		Operand: c.unary(raw.Operand),
	}
}

func (c *converter) postfix(raw *rawPostfix) *ast.Expr {
	e := c.primary(raw.Primary)
	if raw.Call == nil {
		return e
	}
	call := &ast.Expr{
		ID:     c.ids.Next(),
		Span:   c.span(raw.Pos, raw.EndPos),
		Kind:   ast.ExprCall,
		Callee: e,
	}
	for _, a := range raw.Call.Args {
		call.Args = append(call.Args, c.expr(a))
	}
	return call
}

func (c *converter) primary(raw *rawPrimary) *ast.Expr {
	e := &ast.Expr{ID: c.ids.Next(), Span: c.span(raw.Pos, raw.EndPos), Kind: ast.ExprLit}
	switch {
	case raw.Double != "":
		v, err := strconv.ParseFloat(raw.Double, 64)
		if err != nil {
			c.invalidLiteral(e.Span, raw.Double, err)
		}
		e.Lit = &ast.Lit{Kind: ast.LitDouble, Double: v}
	case raw.BigInt != "":
		v, ok := new(big.Int).SetString(strings.TrimSuffix(raw.BigInt, "L"), 10)
		if !ok {
			c.invalidLiteral(e.Span, raw.BigInt, nil)
			v = new(big.Int)
		}
		e.Lit = &ast.Lit{Kind: ast.LitBigInt, Big: v}
	case raw.Int != "":
		v, err := strconv.ParseInt(raw.Int, 10, 64)
		if err != nil {
			c.invalidLiteral(e.Span, raw.Int, err)
		}
		e.Lit = &ast.Lit{Kind: ast.LitInt, Int: v}
	case raw.Str != "":
		v, err := strconv.Unquote(raw.Str)
		if err != nil {
			c.invalidLiteral(e.Span, raw.Str, err)
		}
		e.Lit = &ast.Lit{Kind: ast.LitString, Str: v}
	case raw.Bool != "":
		e.Lit = &ast.Lit{Kind: ast.LitBool, Bool: raw.Bool == "true"}
	case raw.Result != "":
		e.Lit = &ast.Lit{Kind: ast.LitResult, Bool: raw.Result == "One"}
	case raw.Unit != "":
		e.Kind = ast.ExprUnit
	case raw.Paren != nil:
		e.Kind = ast.ExprParen
		e.Operand = c.expr(raw.Paren)
	default:
		e.Kind = ast.ExprPath
		e.Path = c.path(raw.Path)
	}
	return e
}

func (c *converter) invalidLiteral(span source.Span, text string, err error) {
	msg := fmt.Sprintf("invalid literal %s", text)
	if err != nil {
		msg = fmt.Sprintf("invalid literal %s: %v", text, err)
	}
	c.diags = append(c.diags, diag.NewError(diag.SynInvalidLiteral, span, msg))
}
