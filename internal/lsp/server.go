// Package lsp serves the language service over stdio JSON-RPC. Each open
// document and each notebook is one session in a langsvc.Service; the
// document URI is the source name the session compiles under.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"qls/internal/diag"
	"qls/internal/langsvc"
	"qls/internal/source"
	"qls/internal/trace"
	"qls/internal/version"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	Config         langsvc.Config // initial session configuration
	MaxDiagnostics int            // per document, default 100
	Log            io.Writer      // default os.Stderr
}

type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex
	log    io.Writer

	svc            *langsvc.Service
	maxDiagnostics int

	mu                sync.Mutex
	cfg               langsvc.Config
	docs              map[string]string   // open standalone documents
	notebooks         map[string][]string // notebook uri -> every cell uri in order, markdown included
	cellOwner         map[string]string   // cell uri -> notebook uri
	cellText          map[string]string
	shutdownRequested bool
	baseCtx           context.Context
}

func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	log := opts.Log
	if log == nil {
		log = os.Stderr
	}
	return &Server{
		in:             bufio.NewReader(in),
		out:            bufio.NewWriter(out),
		log:            log,
		svc:            langsvc.NewService(opts.Config),
		maxDiagnostics: maxDiagnostics,
		cfg:            opts.Config,
		docs:           make(map[string]string),
		notebooks:      make(map[string][]string),
		cellOwner:      make(map[string]string),
		cellText:       make(map[string]string),
		baseCtx:        context.Background(),
	}
}

// Run serves requests until exit or EOF.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx
	for {
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	span := trace.Begin(trace.FromContext(s.baseCtx), trace.ScopeSession, msg.Method, 0)
	defer span.End("")

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if s.shutdownRequested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "notebookDocument/didOpen":
		return s.handleNotebookDidOpen(msg)
	case "notebookDocument/didChange":
		return s.handleNotebookDidChange(msg)
	case "notebookDocument/didClose":
		return s.handleNotebookDidClose(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/definition":
		return s.handleDefinition(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	result := initializeResult{
		Capabilities: serverCapabilities{
			PositionEncoding: source.EncodingUTF16.String(),
			TextDocumentSync: textDocumentSyncOptions{OpenClose: true, Change: 2},
			NotebookDocumentSync: &notebookDocumentSyncOptions{
				NotebookSelector: []notebookSelector{{Notebook: "*", Cells: []map[string]string{{"language": "qsharp"}}}},
			},
			HoverProvider:      true,
			DefinitionProvider: true,
		},
		ServerInfo: serverInfo{Name: "qls", Version: version.Version},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	s.docs[uri] = params.TextDocument.Text
	s.mu.Unlock()
	return s.compileDocument(uri)
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	s.mu.Lock()
	if notebook, ok := s.cellOwner[uri]; ok {
		s.cellText[uri] = applyChanges(s.cellText[uri], params.ContentChanges)
		s.mu.Unlock()
		return s.compileNotebook(notebook)
	}
	text, ok := s.docs[uri]
	if !ok {
		s.mu.Unlock()
		s.logf("didChange for unopened document %s", uri)
		return nil
	}
	s.docs[uri] = applyChanges(text, params.ContentChanges)
	s.mu.Unlock()
	return s.compileDocument(uri)
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := params.TextDocument.URI
	s.mu.Lock()
	_, open := s.docs[uri]
	delete(s.docs, uri)
	s.mu.Unlock()
	if !open {
		return nil
	}
	s.svc.Close(uri)
	return s.sendPublish(uri, nil)
}

func (s *Server) handleNotebookDidOpen(msg *rpcMessage) error {
	var params didOpenNotebookDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	nb := params.NotebookDocument.URI
	texts := make(map[string]string, len(params.CellTextDocuments))
	for _, doc := range params.CellTextDocuments {
		texts[doc.URI] = doc.Text
	}
	s.mu.Lock()
	cells := make([]string, 0, len(params.NotebookDocument.Cells))
	for _, cell := range params.NotebookDocument.Cells {
		cells = append(cells, cell.Document)
		// markdown cells have no text document
		if text, ok := texts[cell.Document]; ok {
			s.cellOwner[cell.Document] = nb
			s.cellText[cell.Document] = text
		}
	}
	s.notebooks[nb] = cells
	s.mu.Unlock()
	return s.compileNotebook(nb)
}

func (s *Server) handleNotebookDidChange(msg *rpcMessage) error {
	var params didChangeNotebookDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	nb := params.NotebookDocument.URI
	s.mu.Lock()
	if _, ok := s.notebooks[nb]; !ok {
		s.mu.Unlock()
		return nil
	}
	var closed []string
	if st := params.Change.Cells.Structure; st != nil {
		closed = s.restructureLocked(nb, st)
	}
	for _, tc := range params.Change.Cells.TextContent {
		uri := tc.Document.URI
		if s.cellOwner[uri] == nb {
			s.cellText[uri] = applyChanges(s.cellText[uri], tc.Changes)
		}
	}
	s.mu.Unlock()
	for _, uri := range closed {
		if err := s.sendPublish(uri, nil); err != nil {
			return err
		}
	}
	return s.compileNotebook(nb)
}

// restructureLocked splices the cell array of nb and returns the code cells
// that left the notebook. Caller holds s.mu.
func (s *Server) restructureLocked(nb string, st *notebookCellStructure) []string {
	cells := s.notebooks[nb]
	start := min(max(st.Array.Start, 0), len(cells))
	end := min(start+max(st.Array.DeleteCount, 0), len(cells))
	added := make([]string, 0, len(st.Array.Cells))
	for _, cell := range st.Array.Cells {
		added = append(added, cell.Document)
	}
	s.notebooks[nb] = slices.Concat(cells[:start], added, cells[end:])

	for _, doc := range st.DidOpen {
		s.cellOwner[doc.URI] = nb
		s.cellText[doc.URI] = doc.Text
	}
	var closed []string
	for _, doc := range st.DidClose {
		if s.cellOwner[doc.URI] != nb {
			continue
		}
		delete(s.cellOwner, doc.URI)
		delete(s.cellText, doc.URI)
		closed = append(closed, doc.URI)
	}
	return closed
}

// codeCellsLocked lists the cells of nb that carry source text. Caller holds s.mu.
func (s *Server) codeCellsLocked(nb string) []string {
	var out []string
	for _, uri := range s.notebooks[nb] {
		if s.cellOwner[uri] == nb {
			out = append(out, uri)
		}
	}
	return out
}

func (s *Server) handleNotebookDidClose(msg *rpcMessage) error {
	var params didCloseNotebookDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	nb := params.NotebookDocument.URI
	s.mu.Lock()
	cells := s.codeCellsLocked(nb)
	delete(s.notebooks, nb)
	for _, cell := range cells {
		delete(s.cellOwner, cell)
		delete(s.cellText, cell)
	}
	s.mu.Unlock()
	s.svc.Close(nb)
	for _, cell := range cells {
		if err := s.sendPublish(cell, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) compileDocument(uri string) error {
	s.mu.Lock()
	text := s.docs[uri]
	s.mu.Unlock()
	comp := s.svc.UpdateDocument(uri, []source.Entry{{Name: uri, Contents: text}})
	return s.publish(comp, []string{uri})
}

func (s *Server) compileNotebook(nb string) error {
	s.mu.Lock()
	uris := s.codeCellsLocked(nb)
	cells := make([]source.Entry, len(uris))
	for i, uri := range uris {
		cells[i] = source.Entry{Name: uri, Contents: s.cellText[uri]}
	}
	s.mu.Unlock()
	comp := s.svc.UpdateNotebook(nb, cells)
	return s.publish(comp, uris)
}

// session returns the compilation that owns the document uri.
func (s *Server) session(uri string) (*langsvc.Compilation, bool) {
	s.mu.Lock()
	key := uri
	if nb, ok := s.cellOwner[uri]; ok {
		key = nb
	}
	s.mu.Unlock()
	return s.svc.Snapshot(key)
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error":   rpcError{Code: code, Message: message},
	}
	return s.send(msg)
}

func (s *Server) sendPublish(uri string, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params":  publishDiagnosticsParams{URI: uri, Diagnostics: list},
	}
	return s.send(msg)
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(s.log, "lsp: "+format+"\n", args...)
}

func severity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	}
	return 3
}
