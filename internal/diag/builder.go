package diag

import "qls/internal/source"

func New(kind Kind, sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

// NewError is a shortcut for frontend errors.
func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(KindFrontend, SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}
