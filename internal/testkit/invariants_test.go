package testkit

import (
	"context"
	"strings"
	"testing"

	"lantern/internal/ast"
	"lantern/internal/compiler"
	"lantern/internal/module"
	"lantern/internal/source"
	"lantern/internal/vfs"
	"lantern/internal/warning"
)

func TestCheckSnapshotSpans(t *testing.T) {
	src := "pub fn main() { 1 }"
	good := &module.Snapshot{
		Name:   "app",
		Source: src,
		AST: &ast.Module{Statements: []*ast.Statement{{
			Kind: ast.StmtFunction,
			Span: source.Span{Start: 0, End: 19},
			Body: []*ast.Expression{{Kind: ast.ExprInt, Span: source.Span{Start: 16, End: 17}}},
		}}},
	}
	if err := CheckSnapshotSpans(good); err != nil {
		t.Fatalf("valid snapshot rejected: %v", err)
	}

	bad := *good
	bad.AST = &ast.Module{Statements: []*ast.Statement{{
		Kind: ast.StmtFunction,
		Span: source.Span{Start: 0, End: 10},
		Body: []*ast.Expression{{Kind: ast.ExprInt, Span: source.Span{Start: 16, End: 17}}},
	}}}
	if err := CheckSnapshotSpans(&bad); err == nil || !strings.Contains(err.Error(), "outside parent") {
		t.Fatalf("expected parent violation, got %v", err)
	}

	bad.AST = &ast.Module{Statements: []*ast.Statement{{Kind: ast.StmtConstant, Span: source.Span{Start: 5, End: 5}}}}
	if err := CheckSnapshotSpans(&bad); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty span error, got %v", err)
	}
}

func TestBackendReplaysSteps(t *testing.T) {
	overlay := vfs.NewOverlay(nil)
	overlay.Write("/p/src/app.gleam", "in memory")
	b := &Backend{Steps: []Step{
		{
			Modules:  []*module.Snapshot{{Name: "app", Path: "/p/src/app.gleam"}},
			Warnings: []warning.Warning{{Path: "/p/src/app.gleam", Detail: warning.UnusedLiteral{}}},
		},
	}}
	var acc warning.Accumulator
	for i := 0; i < 2; i++ {
		out, err := b.Compile(context.Background(), compiler.Request{Files: overlay, Warnings: &acc})
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if out.Modules[0].Source != "in memory" {
			t.Fatalf("source = %q", out.Modules[0].Source)
		}
	}
	if b.Calls != 2 || acc.Len() != 2 {
		t.Fatalf("calls=%d warnings=%d", b.Calls, acc.Len())
	}
}
