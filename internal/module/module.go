// Package module holds the per-module result of a successful compile.
package module

import (
	"lantern/internal/ast"
	"lantern/internal/source"
)

// Origin says where a module's source lives.
type Origin uint8

const (
	OriginSrc Origin = iota
	OriginTest
	OriginDependency
)

func (o Origin) String() string {
	switch o {
	case OriginSrc:
		return "src"
	case OriginTest:
		return "test"
	case OriginDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// IsSrc reports whether the module is part of the project's own sources.
func (o Origin) IsSrc() bool { return o == OriginSrc }

// Snapshot is the compiled state of one module as of its last successful
// compile. Snapshots are replaced wholesale, never mutated in place, except for
// the lazily built line index.
type Snapshot struct {
	Name   string
	Path   string
	Origin Origin
	Source string
	AST    *ast.Module

	lines *source.LineIndex
}

// LineIndex returns the line index of Source, building it on first use.
func (s *Snapshot) LineIndex() *source.LineIndex {
	if s.lines == nil {
		s.lines = source.NewLineIndex(s.Source)
	}
	return s.lines
}

// Find resolves offset to the innermost AST node, or nil.
func (s *Snapshot) Find(offset uint32) ast.Located {
	if s == nil || s.AST == nil {
		return nil
	}
	return s.AST.Find(offset)
}
