package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qls/internal/diag"
	"qls/internal/source"
)

func sampleMap() *source.SourceMap {
	return source.NewSourceMap(
		source.Entry{Name: "a.qs", Contents: "namespace A {\n    let x = 1 + true;\n}\n"},
		source.Entry{Name: "b.qs", Contents: "let s = \"héllo\"; bad\n"},
	)
}

// spanOf returns the global span of the first occurrence of needle in name.
func spanOf(t *testing.T, m *source.SourceMap, name, needle string) source.Span {
	t.Helper()
	src, ok := m.FindByName(name)
	require.True(t, ok)
	idx := strings.Index(src.Contents, needle)
	require.GreaterOrEqual(t, idx, 0)
	lo := src.Offset + uint32(idx)
	return source.Span{Lo: lo, Hi: lo + uint32(len(needle))}
}

func TestPrettyUnderlinesSpan(t *testing.T) {
	m := sampleMap()
	d := diag.NewError(diag.TypMismatch, spanOf(t, m, "a.qs", "1 + true"), "mismatched types").
		WithHelp("convert one side")

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, m, PrettyOpts{ShowHelp: true})
	out := buf.String()

	assert.Contains(t, out, "a.qs:2:13: ERROR TYP3001: mismatched types")
	assert.Contains(t, out, "2 |     let x = 1 + true;")
	assert.Contains(t, out, "\n  | "+strings.Repeat(" ", 12)+"^~~~~~~~\n")
	assert.Contains(t, out, "help: convert one side")
	assert.NotContains(t, out, "\x1b[")
}

func TestPrettyAlignsAfterWideRunes(t *testing.T) {
	m := sampleMap()
	d := diag.NewError(diag.ResNotFound, spanOf(t, m, "b.qs", "bad"), "not found")

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, m, PrettyOpts{})

	// é занимает два байта, но одну ячейку
	assert.Contains(t, buf.String(), "\n  | "+strings.Repeat(" ", 17)+"^~~\n")
}

func TestPrettyPadsDoubleWidthRunes(t *testing.T) {
	m := source.NewSourceMap(source.Entry{Name: "c.qs", Contents: "let s = \"数\"; bad\n"})
	d := diag.NewError(diag.ResNotFound, spanOf(t, m, "c.qs", "bad"), "not found")

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, m, PrettyOpts{})

	assert.Contains(t, buf.String(), "1 | let s = \"数\"; bad\n")
	assert.Contains(t, buf.String(), "\n  | "+strings.Repeat(" ", 14)+"^~~\n")
}

func TestPrettyColor(t *testing.T) {
	m := sampleMap()
	d := diag.NewError(diag.ResNotFound, spanOf(t, m, "b.qs", "bad"), "not found")

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, m, PrettyOpts{Color: true})
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestPrettyNotesAndUnmapped(t *testing.T) {
	m := sampleMap()
	d := diag.NewError(diag.ResDuplicate, source.Span{Lo: 10_000, Hi: 10_001}, "duplicate").
		WithNote(spanOf(t, m, "a.qs", "namespace"), "first declared here")

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, m, PrettyOpts{ShowNotes: true})
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "ERROR RES2002: duplicate\n"))
	assert.Contains(t, out, "note: a.qs:1:1: first declared here")
}

func TestShortIsSorted(t *testing.T) {
	m := sampleMap()
	ds := []diag.Diagnostic{
		diag.NewError(diag.ResNotFound, spanOf(t, m, "b.qs", "bad"), "second"),
		diag.New(diag.KindLint, diag.SevWarning, diag.LintDoubleEquality, spanOf(t, m, "a.qs", "let"), "first"),
	}

	var buf bytes.Buffer
	Short(&buf, ds, m)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "a.qs:2:5: WARNING"))
	assert.True(t, strings.HasPrefix(lines[1], "b.qs:1:19: ERROR RES2001: second"))
}

func TestJSON(t *testing.T) {
	m := sampleMap()
	ds := []diag.Diagnostic{
		diag.NewError(diag.ResNotFound, spanOf(t, m, "b.qs", "bad"), "not found"),
		diag.NewError(diag.TypMismatch, spanOf(t, m, "a.qs", "true"), "mismatch"),
	}

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, ds, m, JSONOpts{IncludePositions: true, Max: 1}))

	var out DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 2, out.Count)
	require.Len(t, out.Diagnostics, 1)

	got := out.Diagnostics[0]
	assert.Equal(t, "TYP3001", got.Code)
	assert.Equal(t, "frontend", got.Kind)
	assert.Equal(t, "a.qs", got.Location.Source)
	assert.Equal(t, uint32(2), got.Location.StartLine)
	assert.Equal(t, uint32(17), got.Location.StartCol)
	assert.Equal(t, uint32(30), got.Location.StartByte)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
