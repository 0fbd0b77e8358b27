package lsp

import (
	"github.com/google/uuid"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const progressTitle = "Compiling"

// CompilationStarted opens a work-done progress on clients that support it.
// It runs with s.mu held, inside a handler or the manifest watcher.
func (s *Server) CompilationStarted() {
	if !s.progressSupported {
		return
	}
	token := protocol.ProgressToken{Value: uuid.NewString()}
	if err := s.sendRequest(protocol.ServerWindowWorkDoneProgressCreate, protocol.WorkDoneProgressCreateParams{Token: token}); err != nil {
		log.Warningf("failed to create progress: %v", err)
		return
	}
	s.progressToken = token.Value.(string)
	if err := s.sendNotification(protocol.MethodProgress, protocol.ProgressParams{
		Token: token,
		Value: protocol.WorkDoneProgressBegin{Kind: "begin", Title: progressTitle},
	}); err != nil {
		log.Warningf("failed to begin progress: %v", err)
	}
}

// CompilationFinished closes the progress opened by CompilationStarted.
func (s *Server) CompilationFinished() {
	if s.progressToken == "" {
		return
	}
	token := protocol.ProgressToken{Value: s.progressToken}
	s.progressToken = ""
	if err := s.sendNotification(protocol.MethodProgress, protocol.ProgressParams{
		Token: token,
		Value: protocol.WorkDoneProgressEnd{Kind: "end"},
	}); err != nil {
		log.Warningf("failed to end progress: %v", err)
	}
}
