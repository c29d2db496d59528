package lsp

import "qls/internal/source"

// applyChanges applies incremental or full-text edits in order. Ranges are
// clamped the same way the session clamps stale positions.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		src := asSource(text)
		start := toSourcePosition(change.Range.Start).ToUTF8ByteOffset(source.EncodingUTF16, src)
		end := toSourcePosition(change.Range.End).ToUTF8ByteOffset(source.EncodingUTF16, src)
		if end < start {
			end = start
		}
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

func asSource(text string) *source.Source {
	return source.NewSourceMap(source.Entry{Contents: text}).Sources()[0]
}

func toSourcePosition(p position) source.Position {
	return source.Position{Line: p.Line, Column: p.Character}
}

func fromSourcePosition(p source.Position) position {
	return position{Line: p.Line, Character: p.Column}
}
