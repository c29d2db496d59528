package syntax

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// qsLexer defines the token types of the language.
var qsLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},

	// Literals (BigInt and Double must come before Int)
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Double", Pattern: `\d+\.\d+`},
	{Name: "BigInt", Pattern: `\d+L`},
	{Name: "Int", Pattern: `\d+`},

	// Keywords are matched by value against Ident tokens in the grammar.
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},

	{Name: "Op", Pattern: `==|!=|<=|>=|[-+*/%<>=]`},
	{Name: "Punct", Pattern: `[(){},;:.@]`},
})
