package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"qls/internal/diag"
	"qls/internal/source"
)

// Pretty prints each diagnostic as
//
//	<source>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the offending line with a ^~~~ underline, then notes and help.
// Diagnostics whose span does not fall in any source are printed without
// context.
func Pretty(w io.Writer, ds []diag.Diagnostic, m *source.SourceMap, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range diag.Sorted(ds) {
		if i > 0 {
			fmt.Fprintln(w)
		}
		src, start, end, ok := resolve(m, d.Primary)
		if !ok {
			fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity), p.code.Sprint(d.Code), d.Message)
		} else {
			fmt.Fprintf(w, "%s:%s: %s %s: %s\n", p.path.Sprint(src.Name), start, p.severity(d.Severity), p.code.Sprint(d.Code), d.Message)
			writeSnippet(w, p, src, start, end, opts.Context)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				nsrc, nstart, _, nok := resolve(m, n.Span)
				if nok {
					fmt.Fprintf(w, "  %s %s:%s: %s\n", p.note.Sprint("note:"), nsrc.Name, nstart, n.Msg)
				} else {
					fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
				}
			}
		}
		if opts.ShowHelp && d.Help != "" {
			fmt.Fprintf(w, "  %s %s\n", p.help.Sprint("help:"), d.Help)
		}
	}
}

// Short prints one line per diagnostic, in source order.
func Short(w io.Writer, ds []diag.Diagnostic, m *source.SourceMap) {
	for _, d := range diag.Sorted(ds) {
		if src, start, _, ok := resolve(m, d.Primary); ok {
			fmt.Fprintf(w, "%s:%s: %s %s: %s\n", src.Name, start, d.Severity, d.Code, d.Message)
			continue
		}
		fmt.Fprintf(w, "%s %s: %s\n", d.Severity, d.Code, d.Message)
	}
}

func resolve(m *source.SourceMap, span source.Span) (*source.Source, source.Position, source.Position, bool) {
	if m == nil {
		return nil, source.Position{}, source.Position{}, false
	}
	return m.Resolve(span, source.EncodingUTF8)
}

func writeSnippet(w io.Writer, p palette, src *source.Source, start, end source.Position, context int) {
	lines := strings.Split(src.Contents, "\n")
	first := max(int(start.Line)-context, 0)
	last := min(int(start.Line)+context, len(lines)-1)
	gutter := len(fmt.Sprint(last + 1))

	for ln := first; ln <= last; ln++ {
		text := strings.TrimRight(lines[ln], "\r")
		fmt.Fprintf(w, "%*d | %s\n", gutter, ln+1, text)
		if ln != int(start.Line) {
			continue
		}
		// колонки в байтах, а отступ считаем в ячейках терминала
		col := min(int(start.Column), len(text))
		endCol := len(text)
		if end.Line == start.Line {
			endCol = min(int(end.Column), len(text))
		}
		pad := runewidth.StringWidth(text[:col])
		width := max(runewidth.StringWidth(text[col:max(endCol, col)]), 1)
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%*s | %s%s\n", gutter, "", strings.Repeat(" ", pad), p.marker.Sprint(marker))
	}
}

type palette struct {
	err    *color.Color
	warn   *color.Color
	info   *color.Color
	code   *color.Color
	path   *color.Color
	marker *color.Color
	note   *color.Color
	help   *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan),
		code:   mk(color.Bold),
		path:   mk(color.FgWhite, color.Bold),
		marker: mk(color.FgRed),
		note:   mk(color.FgBlue, color.Bold),
		help:   mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return p.err.Sprint(s)
	case diag.SevWarning:
		return p.warn.Sprint(s)
	}
	return p.info.Sprint(s)
}
