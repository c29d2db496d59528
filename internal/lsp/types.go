package lsp

import (
	"encoding/json"

	"qls/internal/lint"
)

type rpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeInvalidParams  = -32602
	codeMethodNotFound = -32601
)

type textDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

type textDocumentIdentifier struct {
	URI string `json:"uri"`
}

type versionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type textDocumentPositionParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
	Position     position               `json:"position"`
}

// position uses UTF-16 code units, the LSP default encoding.
type position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

type lspRange struct {
	Start position `json:"start"`
	End   position `json:"end"`
}

type textDocumentContentChangeEvent struct {
	Range *lspRange `json:"range,omitempty"`
	Text  string    `json:"text"`
}

type didOpenTextDocumentParams struct {
	TextDocument textDocumentItem `json:"textDocument"`
}

type didChangeTextDocumentParams struct {
	TextDocument   versionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []textDocumentContentChangeEvent `json:"contentChanges"`
}

type didCloseTextDocumentParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
}

type notebookDocument struct {
	URI   string         `json:"uri"`
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	Kind     int    `json:"kind"`
	Document string `json:"document"`
}

type didOpenNotebookDocumentParams struct {
	NotebookDocument  notebookDocument   `json:"notebookDocument"`
	CellTextDocuments []textDocumentItem `json:"cellTextDocuments"`
}

type didChangeNotebookDocumentParams struct {
	NotebookDocument versionedTextDocumentIdentifier `json:"notebookDocument"`
	Change           struct {
		Cells struct {
			Structure   *notebookCellStructure `json:"structure,omitempty"`
			TextContent []struct {
				Document versionedTextDocumentIdentifier  `json:"document"`
				Changes  []textDocumentContentChangeEvent `json:"changes"`
			} `json:"textContent"`
		} `json:"cells"`
	} `json:"change"`
}

type notebookCellStructure struct {
	Array struct {
		Start       int            `json:"start"`
		DeleteCount int            `json:"deleteCount"`
		Cells       []notebookCell `json:"cells,omitempty"`
	} `json:"array"`
	DidOpen  []textDocumentItem       `json:"didOpen,omitempty"`
	DidClose []textDocumentIdentifier `json:"didClose,omitempty"`
}

type didCloseNotebookDocumentParams struct {
	NotebookDocument  textDocumentIdentifier   `json:"notebookDocument"`
	CellTextDocuments []textDocumentIdentifier `json:"cellTextDocuments"`
}

type textDocumentSyncOptions struct {
	OpenClose bool `json:"openClose"`
	Change    int  `json:"change"`
}

type notebookDocumentSyncOptions struct {
	NotebookSelector []notebookSelector `json:"notebookSelector"`
}

type notebookSelector struct {
	Notebook string              `json:"notebook"`
	Cells    []map[string]string `json:"cells,omitempty"`
}

type serverCapabilities struct {
	PositionEncoding     string                       `json:"positionEncoding"`
	TextDocumentSync     textDocumentSyncOptions      `json:"textDocumentSync"`
	NotebookDocumentSync *notebookDocumentSyncOptions `json:"notebookDocumentSync,omitempty"`
	HoverProvider        bool                         `json:"hoverProvider,omitempty"`
	DefinitionProvider   bool                         `json:"definitionProvider,omitempty"`
}

type initializeResult struct {
	Capabilities serverCapabilities `json:"capabilities"`
	ServerInfo   serverInfo         `json:"serverInfo"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type publishDiagnosticsParams struct {
	URI         string          `json:"uri"`
	Diagnostics []lspDiagnostic `json:"diagnostics"`
}

type lspDiagnostic struct {
	Range    lspRange `json:"range"`
	Severity int      `json:"severity,omitempty"`
	Code     string   `json:"code,omitempty"`
	Source   string   `json:"source,omitempty"`
	Message  string   `json:"message"`
}

type markupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type hover struct {
	Contents markupContent `json:"contents"`
	Range    *lspRange     `json:"range,omitempty"`
}

type location struct {
	URI   string   `json:"uri"`
	Range lspRange `json:"range"`
}

type didChangeConfigurationParams struct {
	Settings json.RawMessage `json:"settings"`
}

type lspSettings struct {
	QSharp qsharpSettings `json:"qsharp"`
}

type qsharpSettings struct {
	TargetProfile    *string       `json:"targetProfile,omitempty"`
	PackageType      *string       `json:"packageType,omitempty"`
	LanguageFeatures []string      `json:"languageFeatures,omitempty"`
	Lints            []lint.Config `json:"lints,omitempty"`
}
