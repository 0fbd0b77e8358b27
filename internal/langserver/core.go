// Package langserver is the editor-facing core: it keeps unsaved buffers in
// an overlay, recompiles on lifecycle events and answers position queries
// against the last good compile.
//
// A Core is not safe for concurrent use. The transport serialises calls.
package langserver

import (
	"context"
	"path/filepath"

	"github.com/tliron/commonlog"

	"lantern/internal/compiler"
	"lantern/internal/feedback"
	"lantern/internal/format"
	"lantern/internal/project"
	"lantern/internal/vfs"
)

var log = commonlog.GetLogger("lantern.langserver")

// ProgressReporter is told when a compile starts and finishes.
type ProgressReporter interface {
	CompilationStarted()
	CompilationFinished()
}

type noProgress struct{}

func (noProgress) CompilationStarted()  {}
func (noProgress) CompilationFinished() {}

// BackendFactory builds the compiler backend for a configuration. It may
// return nil when the configuration names no compiler.
type BackendFactory func(cfg *project.Config) compiler.Backend

// FormatterFactory builds the formatter for a configuration.
type FormatterFactory func(cfg *project.Config) format.Formatter

// Options configures a Core. Only Config is usually set; the rest default to
// the real implementations.
type Options struct {
	// Config is the project manifest; nil outside a project.
	Config    *project.Config
	Disk      vfs.Reader
	Backend   BackendFactory
	Formatter FormatterFactory
	Progress  ProgressReporter
}

// Core is the language server state for one project.
type Core struct {
	config     *project.Config
	overlay    *vfs.Overlay
	session    *compiler.Session
	formatter  format.Formatter
	newBackend BackendFactory
	newFormat  FormatterFactory
	progress   ProgressReporter

	book feedback.Bookkeeper
	// paths of modules compiled since the previous Feedback
	compiled []string
}

// New builds a core and its first compiler session.
func New(opts Options) *Core {
	c := &Core{
		config:     opts.Config,
		overlay:    vfs.NewOverlay(opts.Disk),
		newBackend: opts.Backend,
		newFormat:  opts.Formatter,
		progress:   opts.Progress,
	}
	if c.newBackend == nil {
		c.newBackend = compiler.BackendFor
	}
	if c.newFormat == nil {
		c.newFormat = format.ForConfig
	}
	if c.progress == nil {
		c.progress = noProgress{}
	}
	c.rebuild()
	return c
}

// Config returns the configuration in effect, or nil outside a project.
func (c *Core) Config() *project.Config {
	return c.config
}

// Overlay exposes the in-memory file view.
func (c *Core) Overlay() *vfs.Overlay {
	return c.overlay
}

// Session exposes the current compiler session.
func (c *Core) Session() *compiler.Session {
	return c.session
}

func (c *Core) rebuild() {
	var backend compiler.Backend
	if c.config != nil {
		backend = c.newBackend(c.config)
	}
	c.session = compiler.NewSession(c.config, c.overlay, backend)
	c.formatter = c.newFormat(c.config)
}

func (c *Core) layout() project.Layout {
	if c.config == nil {
		return project.Layout{}
	}
	return c.config.Layout()
}

// compile runs one compile between progress notifications and remembers the
// modules it touched, even when it fails.
func (c *Core) compile(ctx context.Context) error {
	c.progress.CompilationStarted()
	compiled, err := c.session.Compile(ctx)
	c.progress.CompilationFinished()

	for _, m := range compiled {
		c.compiled = append(c.compiled, project.CanonicalPath(m.Path))
	}
	return err
}

// notified runs op and always drains warnings and compiled modules into a
// Feedback, whatever op returned.
func (c *Core) notified(op func() error) feedback.Feedback {
	err := op()
	return c.drain(err)
}

func (c *Core) drain(err error) feedback.Feedback {
	warnings := c.session.TakeWarnings()
	compiled := c.compiled
	c.compiled = nil
	if err != nil {
		log.Debugf("request failed: %v", err)
	}
	return c.book.Response(compiled, warnings, err)
}

// Response bundles a query payload with the feedback drained while serving
// it. Payload is the zero value when the query failed or found nothing.
type Response[T any] struct {
	Payload  T
	Feedback feedback.Feedback
}

func respond[T any](c *Core, op func() (T, error)) Response[T] {
	payload, err := op()
	if err != nil {
		var zero T
		payload = zero
	}
	return Response[T]{Payload: payload, Feedback: c.drain(err)}
}

// CompilePlease compiles the project without any preceding event.
func (c *Core) CompilePlease(ctx context.Context) feedback.Feedback {
	return c.notified(func() error { return c.compile(ctx) })
}

// ConfigChanged reloads the manifest from disk, replaces the compiler session
// and compiles with the new configuration. If the manifest cannot be loaded
// the old session stays in place.
func (c *Core) ConfigChanged(ctx context.Context) feedback.Feedback {
	return c.notified(func() error {
		if c.config == nil {
			return nil
		}
		cfg, err := project.LoadConfig(filepath.Join(c.config.Root, project.ManifestName))
		if err != nil {
			return err
		}
		log.Infof("configuration reloaded for %s", cfg.Name)
		c.config = cfg
		c.rebuild()
		return c.compile(ctx)
	})
}
