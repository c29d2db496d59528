package diag

import (
	"fmt"

	"qls/internal/source"
)

// Kind tags which stage produced a diagnostic.
type Kind uint8

const (
	// KindFrontend covers syntax, name resolution and type errors.
	KindFrontend Kind = iota
	// KindPass covers capability-pass violations.
	KindPass
	// KindLint covers lint findings.
	KindLint
)

func (k Kind) String() string {
	switch k {
	case KindFrontend:
		return "frontend"
	case KindPass:
		return "pass"
	case KindLint:
		return "lint"
	}
	return "unknown"
}

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Code     Code
	Message  string
	Help     string
	Primary  source.Span // global package offsets
	Source   string      // name of the source Primary falls in, "" if unmapped
	Notes    []Note
}

func (d Diagnostic) String() string {
	where := d.Source
	if where == "" {
		where = "<unknown>"
	}
	return fmt.Sprintf("%s[%s] %s@%s: %s", d.Severity, d.Code, where, d.Primary, d.Message)
}

// WithSource fills Source from the map the span was produced against.
func (d Diagnostic) WithSource(m *source.SourceMap) Diagnostic {
	if m == nil {
		return d
	}
	if src, ok := m.FindByOffset(d.Primary.Lo); ok {
		d.Source = src.Name
	}
	return d
}
