package lsp

import (
	"encoding/json"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"lantern/internal/project"
)

// columns indexes the current text of uri: the editor's copy when open,
// otherwise whatever the overlay serves.
func (s *Server) columns(uri string) columns {
	if text, open := s.docs[uri]; open {
		return columnsOf(text)
	}
	text, err := s.core.Overlay().Read(project.URIToPath(uri))
	if err != nil {
		return columnsOf("")
	}
	return columnsOf(text)
}

func (s *Server) handleHover(msg *rpcMessage) error {
	var params protocol.HoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	cols := s.columns(params.TextDocument.URI)
	resp := s.core.Hover(s.baseCtx, params.TextDocument.URI, cols.fromPosition(params.Position))
	var result *protocol.Hover
	if h := resp.Payload; h != nil {
		r := cols.toRange(h.Range)
		result = &protocol.Hover{
			Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: h.Contents},
			Range:    &r,
		}
	}
	s.publish(resp.Feedback)
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleDefinition(msg *rpcMessage) error {
	var params protocol.DefinitionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	resp := s.core.GotoDefinition(s.baseCtx, params.TextDocument.URI, s.columns(params.TextDocument.URI).fromPosition(params.Position))
	var result *protocol.Location
	if loc := resp.Payload; loc != nil {
		result = &protocol.Location{URI: loc.URI, Range: s.columns(loc.URI).toRange(loc.Range)}
	}
	s.publish(resp.Feedback)
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleCompletion(msg *rpcMessage) error {
	var params protocol.CompletionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	resp := s.core.Completion(s.baseCtx, params.TextDocument.URI, s.columns(params.TextDocument.URI).fromPosition(params.Position))
	var items []protocol.CompletionItem
	if resp.Payload != nil {
		kind := protocol.CompletionItemKindModule
		items = make([]protocol.CompletionItem, 0, len(resp.Payload))
		for _, item := range resp.Payload {
			items = append(items, protocol.CompletionItem{Label: item.Label, Kind: &kind})
		}
	}
	s.publish(resp.Feedback)
	return s.sendResponse(msg.ID, items)
}

func (s *Server) handleFormatting(msg *rpcMessage) error {
	var params protocol.DocumentFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	resp := s.core.Format(s.baseCtx, params.TextDocument.URI)
	cols := s.columns(params.TextDocument.URI)
	var edits []protocol.TextEdit
	if resp.Payload != nil {
		edits = make([]protocol.TextEdit, 0, len(resp.Payload))
		for _, edit := range resp.Payload {
			edits = append(edits, protocol.TextEdit{Range: cols.toRange(edit.Range), NewText: edit.NewText})
		}
	}
	s.publish(resp.Feedback)
	return s.sendResponse(msg.ID, edits)
}
