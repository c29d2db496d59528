package frontend

import (
	"qls/internal/diag"
	"qls/internal/hir"
	"qls/internal/source"
)

// checkEntryPoint requires exactly one parameterless @EntryPoint().
func checkEntryPoint(pkg *hir.Package) []diag.Diagnostic {
	var (
		out   []diag.Diagnostic
		first *hir.Item
	)
	for _, it := range pkg.Items {
		if !it.Decl.EntryPoint {
			continue
		}
		if first != nil {
			out = append(out, diag.NewError(diag.EntDuplicate, it.Decl.Name.Span,
				"duplicate entry point "+it.FullName()).
				WithNote(first.Decl.Name.Span, "first entry point declared here"))
			continue
		}
		first = it
		if len(it.Decl.Params) > 0 {
			out = append(out, diag.NewError(diag.TypEntryPointParams, it.Decl.Name.Span,
				"entry point "+it.FullName()+" must not take parameters"))
		}
	}
	if first == nil {
		out = append(out, diag.NewError(diag.EntMissing, source.Span{},
			"no entry point found, add @EntryPoint() to an operation").
			WithHelp("library projects do not need an entry point, set the package type to lib"))
	}
	return out
}
