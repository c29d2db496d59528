package lsp

import (
	"encoding/json"

	"qls/internal/source"
)

func (s *Server) handleHover(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	comp, ok := s.session(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	info, ok := comp.Hover(params.TextDocument.URI, toSourcePosition(params.Position), source.EncodingUTF16)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	result := hover{Contents: markupContent{Kind: "markdown", Value: "```qsharp\n" + info.Contents + "\n```"}}
	if _, start, end, ok := comp.UserUnit().Sources.Resolve(info.Span, source.EncodingUTF16); ok {
		result.Range = &lspRange{Start: fromSourcePosition(start), End: fromSourcePosition(end)}
	}
	return s.sendResponse(msg.ID, result)
}

// handleDefinition answers with the declaring source name as URI; library
// sources carry a qsharp-library-source: name the client resolves itself.
func (s *Server) handleDefinition(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	comp, ok := s.session(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	loc, ok := comp.Definition(params.TextDocument.URI, toSourcePosition(params.Position), source.EncodingUTF16)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, location{
		URI:   loc.Source,
		Range: lspRange{Start: fromSourcePosition(loc.Start), End: fromSourcePosition(loc.End)},
	})
}
