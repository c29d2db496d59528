package diagfmt

import (
	"encoding/json"
	"io"

	"qls/internal/diag"
	"qls/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	Source    string `json:"source,omitempty"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Kind     string       `json:"kind"`
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Help     string       `json:"help,omitempty"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// makeLocation переводит глобальный span в смещения внутри исходника.
// Позиции 1-based, как в pretty-выводе.
func makeLocation(span source.Span, m *source.SourceMap, withPositions bool) LocationJSON {
	src, start, end, ok := resolve(m, span)
	if !ok {
		return LocationJSON{StartByte: span.Lo, EndByte: span.Hi}
	}
	loc := LocationJSON{
		Source:    src.Name,
		StartByte: span.Lo - src.Offset,
		EndByte:   min(span.Hi, src.Offset+src.Len()) - src.Offset,
	}
	if withPositions {
		loc.StartLine, loc.StartCol = start.Line+1, start.Column+1
		loc.EndLine, loc.EndCol = end.Line+1, end.Column+1
	}
	return loc
}

// BuildJSON converts diagnostics into their JSON form.
func BuildJSON(ds []diag.Diagnostic, m *source.SourceMap, opts JSONOpts) DiagnosticsOutput {
	sorted := diag.Sorted(ds)
	if opts.Max > 0 && len(sorted) > opts.Max {
		sorted = sorted[:opts.Max]
	}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(sorted)), Count: len(ds)}
	for _, d := range sorted {
		dj := DiagnosticJSON{
			Kind:     d.Kind.String(),
			Severity: d.Severity.String(),
			Code:     d.Code.String(),
			Message:  d.Message,
			Help:     d.Help,
			Location: makeLocation(d.Primary, m, opts.IncludePositions),
		}
		for _, n := range d.Notes {
			dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: makeLocation(n.Span, m, opts.IncludePositions)})
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	return out
}

func JSON(w io.Writer, ds []diag.Diagnostic, m *source.SourceMap, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildJSON(ds, m, opts))
}
