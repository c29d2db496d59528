package syntax

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// rawFile is the parse tree root. It is converted to ast.File after parsing.
// Structs that could otherwise match without capturing anything capture a
// delimiter so participle always allocates them.
type rawFile struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Decls  []*rawTop `@@*`
}

type rawTop struct {
	Namespace *rawNamespace `  @@`
	Callable  *rawCallable  `| @@`
	Stmt      *rawStmt      `| @@`
}

type rawNamespace struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Name    *rawPath       `"namespace" @@ "{"`
	Members []*rawNsMember `@@* "}"`
}

type rawNsMember struct {
	Open     *rawPath     `  "open" @@ ";"`
	Callable *rawCallable `| @@`
}

type rawAttr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   *rawIdent `"@" @@ "("`
	Arg    *rawIdent `@@? ")"`
}

type rawCallable struct {
	Pos       lexer.Position
	EndPos    lexer.Position
	Attrs     []*rawAttr  `@@*`
	Kind      string      `@("function" | "operation")`
	Name      *rawIdent   `@@`
	Params    []*rawParam `"(" (@@ ("," @@)*)? ")"`
	Output    *rawType    `":" @@`
	Intrinsic string      `( "{" "body" @"intrinsic" ";" "}"`
	Body      *rawBlock   `| @@ )`
}

type rawParam struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   *rawIdent `@@ ":"`
	Ty     *rawType  `@@`
}

// rawType captures "(" for the unit type.
type rawType struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string `( @Ident | @"(" ")" )`
}

type rawIdent struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string `@Ident`
}

type rawPath struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Segments []*rawIdent `@@ ("." @@)*`
}

type rawBlock struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Open   string     `@"{"`
	Stmts  []*rawStmt `@@* "}"`
}

type rawStmt struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Let     *rawBinding `  "let" @@ ";"`
	Mutable *rawBinding `| "mutable" @@ ";"`
	Set     *rawAssign  `| "set" @@ ";"`
	Use     *rawIdent   `| "use" @@ "=" "Qubit" "(" ")" ";"`
	Return  *rawExpr    `| "return" @@ ";"`
	If      *rawIf      `| @@`
	While   *rawWhile   `| @@`
	Assign  *rawAssign  `| @@ ";"`
	Empty   string      `| @";"`
	Expr    *rawExpr    `| @@`
	Semi    string      `@";"?`
}

type rawBinding struct {
	Name  *rawIdent `@@`
	Ty    *rawType  `(":" @@)?`
	Value *rawExpr  `"=" @@`
}

type rawAssign struct {
	Name  *rawIdent `@@ "="`
	Value *rawExpr  `@@`
}

type rawIf struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *rawExpr   `"if" @@`
	Body   *rawBlock  `@@`
	Elifs  []*rawElif `@@*`
	Else   *rawBlock  `("else" @@)?`
}

type rawElif struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *rawExpr  `"elif" @@`
	Body   *rawBlock `@@`
}

type rawWhile struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *rawExpr  `"while" @@`
	Body   *rawBlock `@@`
}

// Expressions, lowest precedence first.

type rawExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *rawAnd      `@@`
	Rest   []*rawOrTail `@@*`
}

type rawOrTail struct {
	EndPos lexer.Position
	Op     string  `@"or"`
	Right  *rawAnd `@@`
}

type rawAnd struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *rawCmp       `@@`
	Rest   []*rawAndTail `@@*`
}

type rawAndTail struct {
	EndPos lexer.Position
	Op     string  `@"and"`
	Right  *rawCmp `@@`
}

type rawCmp struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *rawAdd `@@`
	Op     string  `( @("==" | "!=" | "<=" | ">=" | "<" | ">")`
	Right  *rawAdd `@@ )?`
}

type rawAdd struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *rawMul       `@@`
	Rest   []*rawAddTail `@@*`
}

type rawAddTail struct {
	EndPos lexer.Position
	Op     string  `@("+" | "-")`
	Right  *rawMul `@@`
}

type rawMul struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *rawUnary     `@@`
	Rest   []*rawMulTail `@@*`
}

type rawMulTail struct {
	EndPos lexer.Position
	Op     string    `@("*" | "/" | "%")`
	Right  *rawUnary `@@`
}

type rawUnary struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Op      string      `( @("-" | "not")`
	Operand *rawUnary   `  @@ )`
	Postfix *rawPostfix `| @@`
}

type rawPostfix struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Primary *rawPrimary `@@`
	Call    *rawArgs    `@@?`
}

type rawArgs struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Open   string     `@"("`
	Args   []*rawExpr `(@@ ("," @@)*)? ")"`
}

// rawPrimary keeps literal text raw; convert.go parses numbers and unquotes.
type rawPrimary struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Double string   `  @Double`
	BigInt string   `| @BigInt`
	Int    string   `| @Int`
	Str    string   `| @String`
	Bool   string   `| @("true" | "false")`
	Result string   `| @("Zero" | "One")`
	Unit   string   `| @"(" ")"`
	Paren  *rawExpr `| "(" @@ ")"`
	Path   *rawPath `| @@`
}
