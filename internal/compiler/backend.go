package compiler

import (
	"context"

	"lantern/internal/module"
	"lantern/internal/project"
	"lantern/internal/warning"
)

// Files is the file view a backend compiles from.
type Files interface {
	Read(path string) (string, error)
	// Paths lists files that exist only in memory and may not be on disk yet.
	Paths() []string
}

// Request is one compile of the whole project.
type Request struct {
	Config   *project.Config
	Files    Files
	Warnings *warning.Accumulator
}

// Output is what a backend produced. On failure it may still list modules
// that were compiled before the failing one.
type Output struct {
	Modules []*module.Snapshot
	// Importable names every dependency module a project module may import.
	Importable []string
}

// Backend compiles a project. Implementations must read sources only through
// req.Files and report warnings only through req.Warnings.
type Backend interface {
	Compile(ctx context.Context, req Request) (*Output, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, req Request) (*Output, error)

func (f BackendFunc) Compile(ctx context.Context, req Request) (*Output, error) {
	return f(ctx, req)
}
