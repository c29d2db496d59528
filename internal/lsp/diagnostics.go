package lsp

import (
	"qls/internal/diag"
	"qls/internal/langsvc"
	"qls/internal/source"
)

// publish sends the session diagnostics for every document in docs. Each
// document gets a list, possibly empty, so stale results are cleared.
// Diagnostics that fall outside every source go to the first document.
func (s *Server) publish(comp *langsvc.Compilation, docs []string) error {
	byDoc := langsvc.DiagnosticsByDocument(comp)
	sources := comp.UserUnit().Sources
	for i, uri := range docs {
		ds := byDoc[uri]
		if i == 0 {
			ds = append(ds, byDoc[""]...)
		}
		list := make([]lspDiagnostic, 0, min(len(ds), s.maxDiagnostics))
		for _, d := range diag.Sorted(ds) {
			if len(list) == s.maxDiagnostics {
				break
			}
			list = append(list, toLSPDiagnostic(d, sources))
		}
		if err := s.sendPublish(uri, list); err != nil {
			return err
		}
	}
	return nil
}

func toLSPDiagnostic(d diag.Diagnostic, sources *source.SourceMap) lspDiagnostic {
	out := lspDiagnostic{
		Severity: severity(d.Severity),
		Code:     d.Code.String(),
		Source:   "qsharp",
		Message:  d.Message,
	}
	if d.Help != "" {
		out.Message += "\n\nhelp: " + d.Help
	}
	if _, start, end, ok := sources.Resolve(d.Primary, source.EncodingUTF16); ok {
		out.Range = lspRange{Start: fromSourcePosition(start), End: fromSourcePosition(end)}
	}
	return out
}
