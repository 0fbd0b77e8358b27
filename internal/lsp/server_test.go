package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lantern/internal/ast"
	"lantern/internal/compiler"
	"lantern/internal/module"
	"lantern/internal/project"
	"lantern/internal/source"
	"lantern/internal/testkit"
	"lantern/internal/types"
	"lantern/internal/warning"
)

const mainSrc = "pub fn main() {\n  1\n}\n"

type session struct {
	t       *testing.T
	root    string
	backend *testkit.Backend
	in      bytes.Buffer
	nextID  int
}

func newSession(t *testing.T) *session {
	t.Helper()
	s := &session{t: t, root: project.CanonicalPath(t.TempDir())}
	s.write(project.ManifestName, "name = \"app\"\n")
	s.write("src/app.gleam", mainSrc)
	s.backend = &testkit.Backend{Steps: []testkit.Step{s.step()}}
	return s
}

func (s *session) path(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

func (s *session) uri(rel string) string {
	return project.PathToURI(s.path(rel))
}

func (s *session) write(rel, text string) {
	s.t.Helper()
	path := s.path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		s.t.Fatal(err)
	}
}

func (s *session) step() testkit.Step {
	start := uint32(strings.Index(mainSrc, "1"))
	literal := source.Span{Start: start, End: start + 1}
	return testkit.Step{
		Modules: []*module.Snapshot{{
			Name:   "app",
			Path:   s.path("src/app.gleam"),
			Origin: module.OriginSrc,
			AST: &ast.Module{Name: "app", Statements: []*ast.Statement{{
				Kind: ast.StmtFunction,
				Name: "main",
				Span: source.Span{Start: 0, End: uint32(len(mainSrc) - 1)},
				Body: []*ast.Expression{{Kind: ast.ExprInt, Span: literal, Type: types.Named("", "Int")}},
			}}},
		}},
		Importable: []string{"gleam/io"},
		Warnings: []warning.Warning{{
			Path:   s.path("src/app.gleam"),
			Source: mainSrc,
			Detail: warning.UnusedLiteral{At: literal},
		}},
	}
}

func (s *session) request(method string, params any) int {
	s.nextID++
	s.frame(map[string]any{"jsonrpc": "2.0", "id": s.nextID, "method": method, "params": params})
	return s.nextID
}

func (s *session) notify(method string, params any) {
	s.frame(map[string]any{"jsonrpc": "2.0", "method": method, "params": params})
}

func (s *session) frame(msg any) {
	s.t.Helper()
	payload, err := json.Marshal(msg)
	if err != nil {
		s.t.Fatal(err)
	}
	if err := writeMessage(&s.in, payload); err != nil {
		s.t.Fatal(err)
	}
}

func (s *session) initialize(progress bool) {
	s.request("initialize", map[string]any{
		"rootUri": project.PathToURI(s.root),
		"capabilities": map[string]any{
			"window": map[string]any{"workDoneProgress": progress},
		},
	})
	s.notify("initialized", map[string]any{})
}

// run feeds every queued message to a server and returns what it wrote.
func (s *session) run() ([]rpcMessage, error) {
	s.t.Helper()
	var out bytes.Buffer
	server := NewServer(&s.in, &out, ServerOptions{
		Backend: func(*project.Config) compiler.Backend { return s.backend },
		Version: "test",
	})
	runErr := server.Run(context.Background())

	var msgs []rpcMessage
	reader := bufio.NewReader(&out)
	for {
		payload, err := readMessage(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.t.Fatalf("read output: %v", err)
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.t.Fatalf("decode output: %v", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, runErr
}

func responseTo(t *testing.T, msgs []rpcMessage, id int) rpcMessage {
	t.Helper()
	want := json.RawMessage(mustJSON(t, id))
	for _, msg := range msgs {
		if msg.Method == "" && bytes.Equal(msg.ID, want) {
			return msg
		}
	}
	t.Fatalf("no response to request %d", id)
	return rpcMessage{}
}

func notifications(msgs []rpcMessage, method string) []rpcMessage {
	var out []rpcMessage
	for _, msg := range msgs {
		if msg.Method == method {
			out = append(out, msg)
		}
	}
	return out
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

type publishedDiagnostics struct {
	URI         string `json:"uri"`
	Diagnostics []struct {
		Severity int    `json:"severity"`
		Message  string `json:"message"`
		Source   string `json:"source"`
	} `json:"diagnostics"`
}

func decodePublishes(t *testing.T, msgs []rpcMessage) []publishedDiagnostics {
	t.Helper()
	var out []publishedDiagnostics
	for _, msg := range notifications(msgs, "textDocument/publishDiagnostics") {
		var p publishedDiagnostics
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			t.Fatalf("decode publish: %v", err)
		}
		out = append(out, p)
	}
	return out
}

func TestServerSessionFlow(t *testing.T) {
	s := newSession(t)
	s.initialize(false)
	app := s.uri("src/app.gleam")
	s.notify("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{"uri": app, "languageId": "gleam", "version": 1, "text": mainSrc},
	})
	hoverID := s.request("textDocument/hover", map[string]any{
		"textDocument": map[string]any{"uri": app},
		"position":     map[string]any{"line": 1, "character": 2},
	})
	completionID := s.request("textDocument/completion", map[string]any{
		"textDocument": map[string]any{"uri": app},
		"position":     map[string]any{"line": 3, "character": 0},
	})
	shutdownID := s.request("shutdown", nil)
	s.notify("exit", nil)

	msgs, err := s.run()
	if !errors.Is(err, ErrExit) {
		t.Fatalf("Run() = %v, want ErrExit", err)
	}

	var init struct {
		Capabilities struct {
			HoverProvider              bool `json:"hoverProvider"`
			DefinitionProvider         bool `json:"definitionProvider"`
			DocumentFormattingProvider bool `json:"documentFormattingProvider"`
			TextDocumentSync           struct {
				Change int `json:"change"`
			} `json:"textDocumentSync"`
		} `json:"capabilities"`
		ServerInfo struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}
	if err := json.Unmarshal(responseTo(t, msgs, 1).Result, &init); err != nil {
		t.Fatalf("decode initialize: %v", err)
	}
	caps := init.Capabilities
	if !caps.HoverProvider || !caps.DefinitionProvider || !caps.DocumentFormattingProvider || caps.TextDocumentSync.Change != 2 {
		t.Fatalf("unexpected capabilities: %+v", caps)
	}
	if init.ServerInfo.Name != "lantern" || init.ServerInfo.Version != "test" {
		t.Fatalf("unexpected server info: %+v", init.ServerInfo)
	}

	var hover struct {
		Contents struct {
			Kind  string `json:"kind"`
			Value string `json:"value"`
		} `json:"contents"`
	}
	if err := json.Unmarshal(responseTo(t, msgs, hoverID).Result, &hover); err != nil {
		t.Fatalf("decode hover: %v", err)
	}
	if hover.Contents.Kind != "markdown" || hover.Contents.Value != "```gleam\nInt\n```" {
		t.Fatalf("unexpected hover: %+v", hover.Contents)
	}

	var items []struct {
		Label string `json:"label"`
		Kind  int    `json:"kind"`
	}
	if err := json.Unmarshal(responseTo(t, msgs, completionID).Result, &items); err != nil {
		t.Fatalf("decode completion: %v", err)
	}
	if len(items) == 0 || items[0].Kind != 9 {
		t.Fatalf("unexpected completion items: %+v", items)
	}

	if resp := responseTo(t, msgs, shutdownID); resp.Error != nil {
		t.Fatalf("shutdown failed: %+v", resp.Error)
	}

	publishes := decodePublishes(t, msgs)
	if len(publishes) < 2 {
		t.Fatalf("expected a publish and a clear, got %d publishes", len(publishes))
	}
	first := publishes[0]
	if first.URI != app || len(first.Diagnostics) != 1 {
		t.Fatalf("unexpected first publish: %+v", first)
	}
	if d := first.Diagnostics[0]; d.Severity != 2 || d.Source != "lantern" || !strings.HasPrefix(d.Message, "Unused literal") {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
	last := publishes[len(publishes)-1]
	if last.URI != app || len(last.Diagnostics) != 0 {
		t.Fatalf("shutdown should clear diagnostics, got %+v", last)
	}
	if len(notifications(msgs, "$/progress")) != 0 {
		t.Fatalf("progress sent to a client without support")
	}
}

func TestServerReportsProgress(t *testing.T) {
	s := newSession(t)
	s.initialize(true)
	s.request("shutdown", nil)
	s.notify("exit", nil)

	msgs, err := s.run()
	if !errors.Is(err, ErrExit) {
		t.Fatalf("Run() = %v", err)
	}
	creates := notifications(msgs, "window/workDoneProgress/create")
	progress := notifications(msgs, "$/progress")
	if len(creates) != 1 || len(progress) != 2 {
		t.Fatalf("creates=%d progress=%d, want 1 and 2", len(creates), len(progress))
	}
	var kinds []string
	for _, msg := range progress {
		var p struct {
			Token string `json:"token"`
			Value struct {
				Kind  string `json:"kind"`
				Title string `json:"title"`
			} `json:"value"`
		}
		if err := json.Unmarshal(msg.Params, &p); err != nil {
			t.Fatalf("decode progress: %v", err)
		}
		if p.Token == "" {
			t.Fatalf("progress without token")
		}
		kinds = append(kinds, p.Value.Kind)
	}
	if kinds[0] != "begin" || kinds[1] != "end" {
		t.Fatalf("progress kinds = %v", kinds)
	}
}

func TestServerExitWithoutShutdown(t *testing.T) {
	s := newSession(t)
	s.initialize(false)
	s.notify("exit", nil)
	if _, err := s.run(); !errors.Is(err, ErrExitWithoutShutdown) {
		t.Fatalf("Run() = %v, want ErrExitWithoutShutdown", err)
	}
}

func TestServerRequestErrors(t *testing.T) {
	s := newSession(t)
	early := s.request("textDocument/hover", map[string]any{})
	s.initialize(false)
	unknown := s.request("textDocument/rename", map[string]any{})
	s.notify("$/cancelRequest", map[string]any{"id": 1})

	msgs, err := s.run()
	if err != nil {
		t.Fatalf("Run() = %v, want nil at end of input", err)
	}
	if resp := responseTo(t, msgs, early); resp.Error == nil || resp.Error.Code != codeServerNotInitialized {
		t.Fatalf("early request: %+v", resp.Error)
	}
	if resp := responseTo(t, msgs, unknown); resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Fatalf("unknown request: %+v", resp.Error)
	}
}

func TestServerIgnoresUndecodableNotifications(t *testing.T) {
	s := newSession(t)
	s.initialize(false)
	app := s.uri("src/app.gleam")
	s.notify("textDocument/didOpen", map[string]any{"textDocument": 42})
	s.notify("textDocument/didChange", map[string]any{"textDocument": map[string]any{"uri": app}, "contentChanges": "x"})
	s.notify("textDocument/didSave", []int{1})
	s.notify("textDocument/didClose", "closed")
	s.notify("workspace/didChangeWatchedFiles", map[string]any{"changes": 7})
	hover := s.request("textDocument/hover", map[string]any{
		"textDocument": map[string]any{"uri": app},
		"position":     map[string]any{"line": 1, "character": 2},
	})

	msgs, err := s.run()
	if err != nil {
		t.Fatalf("Run() = %v, want nil at end of input", err)
	}
	if resp := responseTo(t, msgs, hover); resp.Error != nil {
		t.Fatalf("hover after bad notifications: %+v", resp.Error)
	}
	if calls := len(s.backend.Seen); calls != 1 {
		t.Fatalf("compiles = %d, want only the initial one", calls)
	}
}

func TestServerIncrementalChange(t *testing.T) {
	s := newSession(t)
	s.initialize(false)
	app := s.uri("src/app.gleam")
	s.notify("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{"uri": app, "version": 1, "text": mainSrc},
	})
	s.notify("textDocument/didChange", map[string]any{
		"textDocument": map[string]any{"uri": app, "version": 2},
		"contentChanges": []any{
			map[string]any{
				"range": map[string]any{
					"start": map[string]any{"line": 1, "character": 2},
					"end":   map[string]any{"line": 1, "character": 3},
				},
				"text": "2",
			},
		},
	})
	if _, err := s.run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	seen := s.backend.Seen
	if len(seen) != 3 {
		t.Fatalf("compiles = %d, want 3", len(seen))
	}
	if got := seen[2][s.path("src/app.gleam")]; got != strings.Replace(mainSrc, "1", "2", 1) {
		t.Fatalf("compiler saw %q", got)
	}
}

func TestServerManifestSave(t *testing.T) {
	s := newSession(t)
	s.initialize(false)
	s.write(project.ManifestName, "name = \"app\"\nbogus = 1\n")
	s.notify("textDocument/didSave", map[string]any{
		"textDocument": map[string]any{"uri": s.uri(project.ManifestName)},
	})
	s.notify("textDocument/didSave", map[string]any{
		"textDocument": map[string]any{"uri": s.uri(project.ManifestName)},
	})

	msgs, err := s.run()
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	shown := notifications(msgs, "window/showMessage")
	if len(shown) != 1 {
		t.Fatalf("showMessage count = %d, want 1", len(shown))
	}
	var p struct {
		Type    int    `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(shown[0].Params, &p); err != nil {
		t.Fatal(err)
	}
	if p.Type != 1 || !strings.HasPrefix(p.Message, "Invalid project manifest") {
		t.Fatalf("unexpected message: %+v", p)
	}
	if s.backend.Calls != 1 {
		t.Fatalf("a broken manifest must not recompile, calls = %d", s.backend.Calls)
	}
}

func TestManifestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, project.ManifestName)
	if err := os.WriteFile(path, []byte("name = \"a\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	changes := make(chan string, 8)
	w, err := watchManifest(path, func(content string) { changes <- content })
	if err != nil {
		t.Fatalf("watchManifest: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("name = \"b\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	timeout := time.After(5 * time.Second)
	for {
		select {
		case content := <-changes:
			if content == "name = \"b\"\n" {
				return
			}
		case <-timeout:
			t.Fatal("no change reported for the manifest")
		}
	}
}
