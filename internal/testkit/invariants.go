package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"lantern/internal/ast"
	"lantern/internal/module"
	"lantern/internal/source"
)

// CheckSnapshotSpans runs a minimal set of span invariants on a compiled module:
// 1) every statement span is non-empty and within the source
// 2) every expression span lies inside its parent's span
// 3) definition spans that point into the same module are within the source
func CheckSnapshotSpans(snap *module.Snapshot) error {
	if snap == nil || snap.AST == nil {
		return fmt.Errorf("nil snapshot or AST")
	}
	size, err := safecast.Conv[uint32](len(snap.Source))
	if err != nil {
		return fmt.Errorf("len source overflow: %w", err)
	}
	whole := source.Span{Start: 0, End: size}

	for _, stmt := range snap.AST.Statements {
		if stmt == nil {
			return fmt.Errorf("%s: nil statement", snap.Name)
		}
		sp := stmt.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("%s: empty %s span %v", snap.Name, stmt.Kind, sp)
		}
		if !whole.Encloses(sp) {
			return fmt.Errorf("%s: %s span %v is outside source %v", snap.Name, stmt.Kind, sp, whole)
		}
		if err := checkDefinition(snap.Name, stmt.Definition, whole); err != nil {
			return err
		}
		if err := checkExpressions(snap.Name, sp, stmt.Body, whole); err != nil {
			return err
		}
	}
	return nil
}

func checkExpressions(name string, parent source.Span, list []*ast.Expression, whole source.Span) error {
	for _, expr := range list {
		if expr == nil {
			return fmt.Errorf("%s: nil expression", name)
		}
		if !parent.Encloses(expr.Span) {
			return fmt.Errorf("%s: expression span %v is outside parent %v", name, expr.Span, parent)
		}
		if err := checkDefinition(name, expr.Definition, whole); err != nil {
			return err
		}
		if err := checkExpressions(name, expr.Span, expr.Children, whole); err != nil {
			return err
		}
	}
	return nil
}

func checkDefinition(name string, def *ast.DefinitionLocation, whole source.Span) error {
	if def == nil || def.Module != "" {
		return nil
	}
	if !whole.Encloses(def.Span) {
		return fmt.Errorf("%s: definition span %v is outside source %v", name, def.Span, whole)
	}
	return nil
}
