// Package syntax parses source text into ast nodes.
//
// The grammar is declared with participle struct tags (grammar.go) and
// converted to the ast representation (convert.go), which assigns NodeIDs
// and shifts every span into the package offset space.
package syntax

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/alecthomas/participle/v2"

	"qls/internal/ast"
	"qls/internal/diag"
	"qls/internal/source"
)

var parser = participle.MustBuild[rawFile](
	participle.Lexer(qsLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
)

// ParseFile parses one source placed at base in the package offset space.
// Parsing never fails hard: on a syntax error the returned file is empty and
// the error is reported as a diagnostic.
func ParseFile(src *source.Source, ids *ast.IDGen) (*ast.File, []diag.Diagnostic) {
	c := &converter{base: src.Offset, ids: ids}
	raw, err := parser.ParseString(src.Name, src.Contents)
	if err != nil {
		f := &ast.File{ID: ids.Next(), Span: src.Span(), Name: src.Name}
		return f, []diag.Diagnostic{syntaxError(src, err)}
	}
	f := c.file(src.Name, raw, src.Span())
	return f, c.diags
}

func syntaxError(src *source.Source, err error) diag.Diagnostic {
	span := source.Span{Lo: src.Offset, Hi: src.Offset}
	msg := err.Error()
	var perr participle.Error
	if errors.As(err, &perr) {
		msg = perr.Message()
		if off, convErr := safecast.Conv[uint32](perr.Position().Offset); convErr == nil {
			lo := src.Offset + off
			hi := lo + 1
			if limit := src.Offset + src.Len(); hi > limit {
				hi = limit
			}
			if lo > hi {
				lo = hi
			}
			span = source.Span{Lo: lo, Hi: hi}
		}
	}
	return diag.NewError(diag.SynUnexpectedToken, span, fmt.Sprintf("syntax error: %s", strings.TrimSpace(msg)))
}
