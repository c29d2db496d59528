// Package diagfmt renders session diagnostics for terminals and tools.
package diagfmt

import "fmt"

// Format selects the renderer used by Write.
type Format uint8

const (
	FormatPretty Format = iota
	FormatShort
	FormatJSON
)

func ParseFormat(s string) (Format, error) {
	switch s {
	case "pretty", "":
		return FormatPretty, nil
	case "short":
		return FormatShort, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatPretty, fmt.Errorf("unknown diagnostics format %q (expected: pretty|short|json)", s)
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int // строк контекста до и после
	ShowNotes bool
	ShowHelp  bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	Max              int  // обрезка вывода, 0 - без ограничений
}
