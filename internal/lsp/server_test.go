package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"qls/internal/frontend"
	"qls/internal/langsvc"
)

type call struct {
	ID     int    `json:"id,omitempty"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// runScript feeds msgs to a fresh server and returns everything it wrote.
func runScript(t *testing.T, cfg langsvc.Config, msgs ...call) []rpcMessage {
	t.Helper()
	var in bytes.Buffer
	for _, m := range msgs {
		payload, err := json.Marshal(struct {
			JSONRPC string `json:"jsonrpc"`
			call
		}{"2.0", m})
		if err != nil {
			t.Fatalf("marshal %s: %v", m.Method, err)
		}
		if err := writeMessage(&in, payload); err != nil {
			t.Fatalf("write %s: %v", m.Method, err)
		}
	}
	var out bytes.Buffer
	server := NewServer(&in, &out, ServerOptions{Config: cfg, Log: io.Discard})
	if err := server.Run(context.Background()); err != nil && !errors.Is(err, ErrExit) {
		t.Fatalf("run: %v", err)
	}

	var got []rpcMessage
	r := bufio.NewReader(&out)
	for {
		payload, err := readMessage(r)
		if errors.Is(err, io.EOF) {
			return got
		}
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode output: %v", err)
		}
		got = append(got, msg)
	}
}

func publishes(t *testing.T, msgs []rpcMessage) []publishDiagnosticsParams {
	t.Helper()
	var out []publishDiagnosticsParams
	for _, m := range msgs {
		if m.Method != "textDocument/publishDiagnostics" {
			continue
		}
		var p publishDiagnosticsParams
		if err := json.Unmarshal(m.Params, &p); err != nil {
			t.Fatalf("decode publish: %v", err)
		}
		out = append(out, p)
	}
	return out
}

func response(t *testing.T, msgs []rpcMessage, id int, into any) bool {
	t.Helper()
	want := []byte{byte('0' + id)}
	for _, m := range msgs {
		if m.Method != "" || !bytes.Equal(m.ID, want) {
			continue
		}
		if string(m.Result) == "null" || len(m.Result) == 0 {
			return false
		}
		if err := json.Unmarshal(m.Result, into); err != nil {
			t.Fatalf("decode result %d: %v", id, err)
		}
		return true
	}
	t.Fatalf("no response with id %d", id)
	return false
}

func lib() langsvc.Config {
	return langsvc.Config{PackageType: frontend.PackageTypeLib}
}

func open(uri, text string) call {
	return call{Method: "textDocument/didOpen", Params: didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, LanguageID: "qsharp", Version: 1, Text: text},
	}}
}

func TestDocumentLifecyclePublishes(t *testing.T) {
	const uri = "file:///ws/a.qs"
	msgs := runScript(t, lib(),
		call{ID: 1, Method: "initialize", Params: map[string]any{}},
		open(uri, "function F() : Int { nope }"),
		call{Method: "textDocument/didChange", Params: didChangeTextDocumentParams{
			TextDocument: versionedTextDocumentIdentifier{URI: uri, Version: 2},
			ContentChanges: []textDocumentContentChangeEvent{{
				Range: &lspRange{Start: position{Line: 0, Character: 21}, End: position{Line: 0, Character: 25}},
				Text:  "1",
			}},
		}},
		call{Method: "textDocument/didClose", Params: didCloseTextDocumentParams{TextDocument: textDocumentIdentifier{URI: uri}}},
		call{ID: 2, Method: "shutdown"},
		call{Method: "exit"},
	)

	var initRes initializeResult
	if !response(t, msgs, 1, &initRes) {
		t.Fatal("initialize returned null")
	}
	if !initRes.Capabilities.HoverProvider || initRes.Capabilities.PositionEncoding != "utf-16" {
		t.Fatalf("unexpected capabilities: %+v", initRes.Capabilities)
	}

	pubs := publishes(t, msgs)
	if len(pubs) != 3 {
		t.Fatalf("expected 3 publishes, got %d", len(pubs))
	}
	first := pubs[0]
	if first.URI != uri || len(first.Diagnostics) != 1 {
		t.Fatalf("unexpected first publish: %+v", first)
	}
	d := first.Diagnostics[0]
	if d.Severity != 1 || !strings.HasPrefix(d.Code, "RES") {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
	if d.Range.Start != (position{Line: 0, Character: 21}) || d.Range.End != (position{Line: 0, Character: 25}) {
		t.Fatalf("unexpected range: %+v", d.Range)
	}
	if len(pubs[1].Diagnostics) != 0 {
		t.Fatalf("edit should clear diagnostics, got %+v", pubs[1].Diagnostics)
	}
	if len(pubs[2].Diagnostics) != 0 {
		t.Fatalf("close should clear diagnostics, got %+v", pubs[2].Diagnostics)
	}
}

func TestHoverAndDefinitionIntoStd(t *testing.T) {
	const uri = "file:///ws/b.qs"
	text := "function F() : Int { Microsoft.Quantum.Math.MaxI(1, 2) }"
	col := uint32(strings.Index(text, "MaxI")) + 1
	at := textDocumentPositionParams{TextDocument: textDocumentIdentifier{URI: uri}, Position: position{Character: col}}
	msgs := runScript(t, lib(),
		open(uri, text),
		call{ID: 1, Method: "textDocument/hover", Params: at},
		call{ID: 2, Method: "textDocument/definition", Params: at},
		call{ID: 3, Method: "textDocument/hover", Params: textDocumentPositionParams{
			TextDocument: textDocumentIdentifier{URI: uri}, Position: position{Character: 0},
		}},
	)

	var h hover
	if !response(t, msgs, 1, &h) {
		t.Fatal("hover returned null")
	}
	if !strings.Contains(h.Contents.Value, "function MaxI(a : Int, b : Int) : Int") {
		t.Fatalf("unexpected hover: %q", h.Contents.Value)
	}
	// диапазон покрывает весь путь, а не только последний сегмент
	if h.Range == nil || h.Range.Start.Character != uint32(strings.Index(text, "Microsoft")) {
		t.Fatalf("unexpected hover range: %+v", h.Range)
	}

	var loc location
	if !response(t, msgs, 2, &loc) {
		t.Fatal("definition returned null")
	}
	if loc.URI != "qsharp-library-source:std/math.qs" {
		t.Fatalf("unexpected definition uri: %q", loc.URI)
	}

	var none hover
	if response(t, msgs, 3, &none) {
		t.Fatalf("expected null hover on keyword, got %+v", none)
	}
}

func TestNotebookCellsShareSession(t *testing.T) {
	cells := []textDocumentItem{
		{URI: "nb#c1", Text: "function Twice(x : Int) : Int { x * 2 }"},
		{URI: "nb#c2", Text: "Twice(21)"},
		{URI: "nb#c3", Text: "nope"},
	}
	nb := notebookDocument{URI: "file:///ws/demo.ipynb"}
	for _, c := range cells {
		nb.Cells = append(nb.Cells, notebookCell{Kind: 2, Document: c.URI})
	}
	msgs := runScript(t, lib(),
		call{Method: "notebookDocument/didOpen", Params: didOpenNotebookDocumentParams{NotebookDocument: nb, CellTextDocuments: cells}},
		call{ID: 1, Method: "textDocument/hover", Params: textDocumentPositionParams{
			TextDocument: textDocumentIdentifier{URI: "nb#c2"}, Position: position{Character: 1},
		}},
	)

	pubs := publishes(t, msgs)
	if len(pubs) != 3 {
		t.Fatalf("expected one publish per cell, got %d", len(pubs))
	}
	for i, want := range []int{0, 0, 1} {
		if pubs[i].URI != cells[i].URI || len(pubs[i].Diagnostics) != want {
			t.Fatalf("cell %d: unexpected publish %+v", i, pubs[i])
		}
	}

	var h hover
	if !response(t, msgs, 1, &h) || !strings.Contains(h.Contents.Value, "function Twice(x : Int) : Int") {
		t.Fatalf("unexpected hover across cells: %+v", h)
	}
}

func TestNotebookStructureChange(t *testing.T) {
	cells := []textDocumentItem{
		{URI: "nb#c1", Text: "function Twice(x : Int) : Int { x * 2 }"},
		{URI: "nb#c2", Text: "Twice(21)"},
	}
	nb := notebookDocument{URI: "file:///ws/demo.ipynb", Cells: []notebookCell{
		{Kind: 2, Document: "nb#c1"},
		{Kind: 1, Document: "nb#md"},
		{Kind: 2, Document: "nb#c2"},
	}}
	msgs := runScript(t, lib(),
		call{Method: "notebookDocument/didOpen", Params: didOpenNotebookDocumentParams{NotebookDocument: nb, CellTextDocuments: cells}},
		call{Method: "notebookDocument/didChange", Params: map[string]any{
			"notebookDocument": map[string]any{"uri": nb.URI, "version": 2},
			"change": map[string]any{"cells": map[string]any{"structure": map[string]any{
				"array":    map[string]any{"start": 0, "deleteCount": 2},
				"didClose": []map[string]string{{"uri": "nb#c1"}},
			}}},
		}},
	)

	pubs := publishes(t, msgs)
	if len(pubs) != 4 {
		t.Fatalf("expected 4 publishes, got %d: %+v", len(pubs), pubs)
	}
	if pubs[0].URI != "nb#c1" || pubs[1].URI != "nb#c2" || len(pubs[1].Diagnostics) != 0 {
		t.Fatalf("unexpected publishes after open: %+v", pubs[:2])
	}
	if pubs[2].URI != "nb#c1" || len(pubs[2].Diagnostics) != 0 {
		t.Fatalf("closed cell should be cleared: %+v", pubs[2])
	}
	if pubs[3].URI != "nb#c2" || len(pubs[3].Diagnostics) == 0 {
		t.Fatalf("expected Twice to be unresolved once its cell is gone: %+v", pubs[3])
	}
}

const dynamicDouble = `namespace A {
    open Microsoft.Quantum.Intrinsic;
    @EntryPoint()
    operation Main() : Unit {
        use q = Qubit();
        mutable x = 0.0;
        if M(q) == One { set x = 1.0; }
        let y = x * 2.0;
    }
}`

func TestConfigurationChangeRecompiles(t *testing.T) {
	const uri = "file:///ws/main.qs"
	msgs := runScript(t, langsvc.Config{},
		open(uri, dynamicDouble),
		call{Method: "workspace/didChangeConfiguration", Params: map[string]any{
			"settings": map[string]any{"qsharp": map[string]any{"targetProfile": "adaptive_ri"}},
		}},
		call{Method: "workspace/didChangeConfiguration", Params: map[string]any{
			"settings": map[string]any{"qsharp": map[string]any{"targetProfile": "warp"}},
		}},
	)

	pubs := publishes(t, msgs)
	if len(pubs) != 2 {
		t.Fatalf("expected 2 publishes (invalid settings are ignored), got %d", len(pubs))
	}
	if len(pubs[0].Diagnostics) != 0 {
		t.Fatalf("unrestricted profile should be clean, got %+v", pubs[0].Diagnostics)
	}
	if len(pubs[1].Diagnostics) == 0 || pubs[1].Diagnostics[0].Code != "CAP6004" {
		t.Fatalf("expected capability error after switching profile, got %+v", pubs[1].Diagnostics)
	}
}

func TestUnknownRequest(t *testing.T) {
	msgs := runScript(t, lib(), call{ID: 1, Method: "textDocument/completion"})
	if len(msgs) != 1 || msgs[0].Error == nil || msgs[0].Error.Code != codeMethodNotFound {
		t.Fatalf("expected method-not-found, got %+v", msgs)
	}
}

func TestApplyChangesClamps(t *testing.T) {
	got := applyChanges("héllo\nworld", []textDocumentContentChangeEvent{
		{Range: &lspRange{Start: position{Line: 0, Character: 1}, End: position{Line: 0, Character: 2}}, Text: "e"},
		{Range: &lspRange{Start: position{Line: 9, Character: 0}, End: position{Line: 9, Character: 0}}, Text: "!"},
	})
	if got != "hello\nworld!" {
		t.Fatalf("unexpected text: %q", got)
	}
}
