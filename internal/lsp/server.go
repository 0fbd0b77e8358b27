// Package lsp speaks the Language Server Protocol over stdio and forwards
// every request to a langserver.Core.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"lantern/internal/feedback"
	"lantern/internal/langserver"
	"lantern/internal/project"
)

var log = commonlog.GetLogger("lantern.lsp")

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

const serverName = "lantern"

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	// Backend and Formatter override how the core builds its tools; nil means
	// the commands named in the manifest.
	Backend   langserver.BackendFactory
	Formatter langserver.FormatterFactory
	// WatchManifest reloads the project when lantern.toml changes on disk
	// outside the editor.
	WatchManifest bool
	Version       string
}

// Server handles stdio JSON-RPC for the lantern language server.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex
	// mu serialises access to core; handlers and the manifest watcher hold it.
	mu sync.Mutex

	opts      ServerOptions
	core      *langserver.Core
	docs      map[string]string
	published map[string]struct{}

	root              string
	startupErr        error
	shutdownRequested bool
	progressSupported bool
	progressToken     string
	lastManifest      string
	nextID            atomic.Int64
	watcher           *manifestWatcher
	baseCtx           context.Context
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	return &Server{
		in:        bufio.NewReader(in),
		out:       bufio.NewWriter(out),
		opts:      opts,
		docs:      make(map[string]string),
		published: make(map[string]struct{}),
		baseCtx:   context.Background(),
	}
}

// Run serves LSP requests until exit or end of input.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx
	defer s.stopWatcher()
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
			log.Warningf("failed to parse message: %v", err)
			continue
		}
		// Responses to our own requests carry no method.
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Method {
	case protocol.MethodInitialize:
		return s.handleInitialize(msg)
	case protocol.MethodExit:
		if s.shutdownRequested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	}
	if s.core == nil {
		if msg.isRequest() {
			return s.sendError(msg.ID, codeServerNotInitialized, "server not initialized")
		}
		return nil
	}
	if s.shutdownRequested {
		if msg.isRequest() {
			return s.sendError(msg.ID, codeInvalidRequest, "server is shutting down")
		}
		return nil
	}

	switch msg.Method {
	case protocol.MethodInitialized:
		return s.handleInitialized()
	case protocol.MethodShutdown:
		return s.handleShutdown(msg)
	case protocol.MethodWorkspaceDidChangeConfiguration:
		return s.handleDidChangeConfiguration(msg)
	case protocol.MethodWorkspaceDidChangeWatchedFiles:
		return s.handleDidChangeWatchedFiles(msg)
	case protocol.MethodTextDocumentDidOpen:
		return s.handleDidOpen(msg)
	case protocol.MethodTextDocumentDidChange:
		return s.handleDidChange(msg)
	case protocol.MethodTextDocumentDidSave:
		return s.handleDidSave(msg)
	case protocol.MethodTextDocumentDidClose:
		return s.handleDidClose(msg)
	case protocol.MethodTextDocumentHover:
		return s.handleHover(msg)
	case protocol.MethodTextDocumentDefinition:
		return s.handleDefinition(msg)
	case protocol.MethodTextDocumentCompletion:
		return s.handleCompletion(msg)
	case protocol.MethodTextDocumentFormatting:
		return s.handleFormatting(msg)
	default:
		if msg.isRequest() {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params protocol.InitializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	s.root = rootFromParams(&params)
	if w := params.Capabilities.Window; w != nil && w.WorkDoneProgress != nil {
		s.progressSupported = *w.WorkDoneProgress
	}
	s.openProject()

	openClose := true
	change := protocol.TextDocumentSyncKindIncremental
	includeText := false
	version := s.opts.Version
	result := protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: &openClose,
				Change:    &change,
				Save:      protocol.SaveOptions{IncludeText: &includeText},
			},
			HoverProvider:              true,
			DefinitionProvider:         true,
			DocumentFormattingProvider: true,
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{"."},
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}
	return s.sendResponse(msg.ID, result)
}

func rootFromParams(params *protocol.InitializeParams) string {
	root := ""
	if params.RootURI != nil {
		root = project.URIToPath(*params.RootURI)
	}
	if root == "" && params.RootPath != nil {
		root = *params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = project.URIToPath(params.WorkspaceFolders[0].URI)
	}
	if root == "" {
		root = "."
	}
	return project.CanonicalPath(root)
}

// openProject loads the manifest above the workspace root and builds a fresh
// core. Outside a project, or when the manifest is broken, the core runs
// without configuration.
func (s *Server) openProject() {
	cfg, ok, err := project.LoadProject(s.root)
	switch {
	case err != nil:
		log.Errorf("failed to load project at %s: %v", s.root, err)
		s.startupErr = err
		cfg = nil
		var cerr *project.ConfigError
		if errors.As(err, &cerr) {
			s.root = filepath.Dir(cerr.Path)
		}
	case !ok:
		log.Infof("no %s above %s", project.ManifestName, s.root)
	default:
		s.root = cfg.Root
		s.startupErr = nil
		log.Infof("project %s at %s", cfg.Name, cfg.Root)
	}
	s.core = langserver.New(langserver.Options{
		Config:    cfg,
		Backend:   s.opts.Backend,
		Formatter: s.opts.Formatter,
		Progress:  s,
	})
	s.lastManifest = readManifest(s.manifestPath())
	for uri, text := range s.docs {
		s.core.Overlay().Write(project.URIToPath(uri), text)
	}
}

// projectRoot is the directory of the manifest in effect, or the workspace
// root while no manifest could be loaded.
func (s *Server) projectRoot() string {
	if s.core != nil && s.core.Config() != nil {
		return s.core.Config().Root
	}
	return s.root
}

func (s *Server) manifestPath() string {
	return filepath.Join(s.projectRoot(), project.ManifestName)
}

func (s *Server) handleInitialized() error {
	if s.startupErr != nil {
		s.publish(feedback.Feedback{Diagnostics: feedback.Diagnostics(s.startupErr, nil)})
		s.startupErr = nil
	}
	if s.opts.WatchManifest && s.watcher == nil {
		w, err := watchManifest(s.manifestPath(), s.manifestChanged)
		if err != nil {
			log.Warningf("not watching %s: %v", project.ManifestName, err)
		} else {
			s.watcher = w
		}
	}
	s.publish(s.core.CompilePlease(s.baseCtx))
	return nil
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.shutdownRequested = true
	s.stopWatcher()
	s.clearPublishedDiagnostics()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) stopWatcher() {
	if s.watcher != nil {
		s.watcher.Stop()
		s.watcher = nil
	}
}

// ignoreParams drops a notification whose params do not decode. The session
// keeps running.
func ignoreParams(method string, err error) error {
	log.Warningf("ignoring %s: invalid params: %v", method, err)
	return nil
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return ignoreParams(msg.Method, err)
	}
	uri := params.TextDocument.URI
	if project.URIToPath(uri) == "" {
		return nil
	}
	s.docs[uri] = params.TextDocument.Text
	s.publish(s.core.DidOpen(s.baseCtx, uri, params.TextDocument.Text))
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return ignoreParams(msg.Method, err)
	}
	uri := params.TextDocument.URI
	if project.URIToPath(uri) == "" {
		return nil
	}
	texts := applyChanges(s.docs[uri], params.ContentChanges)
	if len(texts) > 0 {
		s.docs[uri] = texts[len(texts)-1]
	}
	log.Debugf("didChange: uri=%s version=%d changes=%d", uri, params.TextDocument.Version, len(texts))
	s.publish(s.core.DidChange(s.baseCtx, uri, texts...))
	return nil
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return ignoreParams(msg.Method, err)
	}
	uri := params.TextDocument.URI
	path := project.URIToPath(uri)
	if path == "" {
		return nil
	}
	if project.IsManifest(s.projectRoot(), path) {
		s.reloadConfig(readManifest(path))
		return nil
	}
	s.publish(s.core.DidSave(s.baseCtx, uri))
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return ignoreParams(msg.Method, err)
	}
	uri := params.TextDocument.URI
	delete(s.docs, uri)
	s.publish(s.core.DidClose(s.baseCtx, uri))
	return nil
}

func (s *Server) handleDidChangeWatchedFiles(msg *rpcMessage) error {
	var params protocol.DidChangeWatchedFilesParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return ignoreParams(msg.Method, err)
	}
	root := s.projectRoot()
	sourcesChanged := false
	for _, change := range params.Changes {
		path := project.URIToPath(change.URI)
		if project.IsManifest(root, path) {
			s.reloadConfig(readManifest(path))
			return nil
		}
		if !s.core.Overlay().Has(path) {
			sourcesChanged = true
		}
	}
	if sourcesChanged {
		s.publish(s.core.CompilePlease(s.baseCtx))
	}
	return nil
}

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	var params struct {
		Settings json.RawMessage `json:"settings"`
	}
	if len(msg.Params) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil || len(params.Settings) == 0 {
		return nil
	}
	var settings lspSettings
	if err := json.Unmarshal(params.Settings, &settings); err != nil {
		log.Debugf("ignoring settings: %v", err)
		return nil
	}
	if settings.Lantern.Trace != nil {
		level := commonlog.Info
		if *settings.Lantern.Trace {
			level = commonlog.Debug
		}
		commonlog.SetMaxLevel(level, "lantern")
	}
	return nil
}

// manifestChanged is called by the watcher with the new manifest content.
func (s *Server) manifestChanged(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.core == nil || s.shutdownRequested {
		return
	}
	s.reloadConfig(content)
}

// reloadConfig applies a manifest edit once per distinct content, whichever
// of didSave, the client's file events or the watcher reports it first.
func (s *Server) reloadConfig(content string) {
	if content == s.lastManifest {
		return
	}
	s.lastManifest = content
	if s.core.Config() == nil {
		s.clearPublishedDiagnostics()
		s.openProject()
		if s.startupErr != nil {
			s.publish(feedback.Feedback{Diagnostics: feedback.Diagnostics(s.startupErr, nil)})
			s.startupErr = nil
			return
		}
		s.publish(s.core.CompilePlease(s.baseCtx))
		return
	}
	s.publish(s.core.ConfigChanged(s.baseCtx))
}

func readManifest(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
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
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	}
	return s.send(msg)
}

func (s *Server) sendNotification(method string, params any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	}
	return s.send(msg)
}

func (s *Server) sendRequest(method string, params any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      s.nextID.Add(1),
		"method":  method,
		"params":  params,
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
