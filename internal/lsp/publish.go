package lsp

import (
	"sort"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"lantern/internal/diag"
	"lantern/internal/feedback"
	"lantern/internal/project"
)

// publish delivers one Feedback: a publishDiagnostics per affected file,
// replacing what the client shows for it, and a showMessage per diagnostic
// that belongs to no file.
func (s *Server) publish(fb feedback.Feedback) {
	byPath := fb.ByPath()
	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		uri := project.PathToURI(path)
		list := make([]protocol.Diagnostic, 0, len(byPath[path]))
		for _, d := range byPath[path] {
			list = append(list, toDiagnostic(d))
		}
		if len(list) == 0 {
			delete(s.published, uri)
		} else {
			s.published[uri] = struct{}{}
		}
		if err := s.sendPublish(uri, list); err != nil {
			log.Errorf("failed to publish diagnostics for %s: %v", uri, err)
		}
	}
	for _, d := range fb.Messages() {
		if err := s.sendShowMessage(d); err != nil {
			log.Errorf("failed to show message: %v", err)
		}
	}
}

func (s *Server) clearPublishedDiagnostics() {
	uris := make([]string, 0, len(s.published))
	for uri := range s.published {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	for _, uri := range uris {
		if err := s.sendPublish(uri, nil); err != nil {
			log.Errorf("failed to clear diagnostics for %s: %v", uri, err)
		}
	}
	clear(s.published)
}

func (s *Server) sendPublish(uri string, list []protocol.Diagnostic) error {
	if list == nil {
		list = []protocol.Diagnostic{}
	}
	return s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: list,
	})
}

func (s *Server) sendShowMessage(d diag.Diagnostic) error {
	return s.sendNotification(protocol.ServerWindowShowMessage, protocol.ShowMessageParams{
		Type:    messageType(d.Level),
		Message: d.Message(),
	})
}
