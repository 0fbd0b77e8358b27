package compiler

import (
	"context"
	"sort"

	"github.com/tliron/commonlog"

	"lantern/internal/module"
	"lantern/internal/project"
	"lantern/internal/warning"
)

var log = commonlog.GetLogger("lantern.compiler")

// Session is the compiler state for one project configuration. Rebuild it when
// the configuration changes.
type Session struct {
	config  *project.Config
	files   Files
	backend Backend // nil when no compiler is configured

	warnings   warning.Accumulator
	modules    map[string]*module.Snapshot
	importable []string
}

// NewSession prepares a session. backend may be nil, in which case Compile
// does nothing.
func NewSession(cfg *project.Config, files Files, backend Backend) *Session {
	return &Session{
		config:  cfg,
		files:   files,
		backend: backend,
		modules: make(map[string]*module.Snapshot),
	}
}

// Config returns the configuration the session was built with.
func (s *Session) Config() *project.Config {
	return s.config
}

// Compile compiles the project and returns the modules compiled by this call.
// On success the snapshots replace the cached ones. On failure the cache is
// left as it was and the partially compiled modules are returned alongside
// the error.
func (s *Session) Compile(ctx context.Context) ([]*module.Snapshot, error) {
	if s.backend == nil {
		return nil, nil
	}
	out, err := s.backend.Compile(ctx, Request{
		Config:   s.config,
		Files:    s.files,
		Warnings: &s.warnings,
	})
	var compiled []*module.Snapshot
	if out != nil {
		compiled = out.Modules
	}
	if err != nil {
		log.Debugf("compile failed after %d module(s): %v", len(compiled), err)
		return compiled, err
	}
	for _, m := range compiled {
		s.modules[m.Name] = m
	}
	s.importable = dedupSorted(out.Importable)
	log.Debugf("compiled %d module(s)", len(compiled))
	return compiled, nil
}

// TakeWarnings returns the warnings emitted since the previous call.
func (s *Session) TakeWarnings() []warning.Warning {
	return s.warnings.Take()
}

// Module returns the cached snapshot for name.
func (s *Session) Module(name string) (*module.Snapshot, bool) {
	m, ok := s.modules[name]
	return m, ok
}

// Modules returns every cached snapshot ordered by name.
func (s *Session) Modules() []*module.Snapshot {
	out := make([]*module.Snapshot, 0, len(s.modules))
	for _, m := range s.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ImportableModules returns the dependency modules reported by the last
// successful compile.
func (s *Session) ImportableModules() []string {
	return append([]string(nil), s.importable...)
}

func dedupSorted(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := append([]string(nil), names...)
	sort.Strings(out)
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}
