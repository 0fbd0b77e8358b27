// Package testkit provides fakes and invariant checks shared by tests.
package testkit

import (
	"context"
	"fmt"

	"lantern/internal/compiler"
	"lantern/internal/module"
	"lantern/internal/warning"
)

// Step is the scripted outcome of one compile.
type Step struct {
	// Modules are returned as compiled. A module without Source gets the
	// current text of its Path read through the request's files.
	Modules    []*module.Snapshot
	Importable []string
	Warnings   []warning.Warning
	Err        error
}

// Backend is an in-memory compiler that replays Steps in order, repeating the
// last one once they run out.
type Backend struct {
	Steps []Step

	// Calls counts Compile invocations.
	Calls int
	// Seen records, per call, the text read for every module path.
	Seen []map[string]string
}

var _ compiler.Backend = (*Backend)(nil)

func (b *Backend) Compile(_ context.Context, req compiler.Request) (*compiler.Output, error) {
	b.Calls++
	if len(b.Steps) == 0 {
		b.Seen = append(b.Seen, nil)
		return &compiler.Output{}, nil
	}
	step := b.Steps[min(b.Calls, len(b.Steps))-1]

	seen := make(map[string]string)
	out := &compiler.Output{Importable: step.Importable}
	for _, m := range step.Modules {
		snap := *m
		if snap.Source == "" && snap.Path != "" {
			text, err := req.Files.Read(snap.Path)
			if err != nil {
				return out, err
			}
			snap.Source = text
		}
		seen[snap.Path] = snap.Source
		if snap.AST != nil {
			if err := CheckSnapshotSpans(&snap); err != nil {
				return out, fmt.Errorf("testkit: invalid scripted module: %w", err)
			}
		}
		out.Modules = append(out.Modules, &snap)
	}
	b.Seen = append(b.Seen, seen)
	for _, w := range step.Warnings {
		req.Warnings.Emit(w)
	}
	return out, step.Err
}
