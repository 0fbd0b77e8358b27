package ast

import (
	"testing"

	"lantern/internal/source"
	"lantern/internal/types"
)

// pub fn main() { add(1, x) }
//
//	0         1         2
//	0123456789012345678901234567
func sampleModule() *Module {
	one := &Expression{Kind: ExprInt, Span: source.Span{Start: 20, End: 21}, Type: types.Named("", "Int")}
	x := &Expression{
		Kind:       ExprVar,
		Span:       source.Span{Start: 23, End: 24},
		Type:       types.Named("", "Int"),
		Definition: &DefinitionLocation{Span: source.Span{Start: 0, End: 3}},
	}
	add := &Expression{
		Kind:       ExprVar,
		Span:       source.Span{Start: 16, End: 19},
		Type:       types.Fn([]*types.Type{types.Named("", "Int"), types.Named("", "Int")}, types.Named("", "Int")),
		Definition: &DefinitionLocation{Module: "math", Span: source.Span{Start: 4, End: 20}},
	}
	call := &Expression{
		Kind:     ExprCall,
		Span:     source.Span{Start: 16, End: 25},
		Type:     types.Named("", "Int"),
		Children: []*Expression{add, one, x},
	}
	return &Module{
		Name: "app",
		Statements: []*Statement{
			{Kind: StmtImport, Name: "math", Span: source.Span{Start: 0, End: 0}},
			{Kind: StmtFunction, Name: "main", Span: source.Span{Start: 0, End: 27}, Body: []*Expression{call}},
		},
	}
}

func TestFindInnermost(t *testing.T) {
	mod := sampleModule()
	tests := []struct {
		name     string
		offset   uint32
		wantKind any
		wantSpan source.Span
	}{
		{name: "function keyword resolves statement", offset: 2, wantKind: StmtFunction, wantSpan: source.Span{Start: 0, End: 27}},
		{name: "callee", offset: 17, wantKind: ExprVar, wantSpan: source.Span{Start: 16, End: 19}},
		{name: "call parens", offset: 19, wantKind: ExprCall, wantSpan: source.Span{Start: 16, End: 25}},
		{name: "literal", offset: 20, wantKind: ExprInt, wantSpan: source.Span{Start: 20, End: 21}},
		{name: "nested argument", offset: 23, wantKind: ExprVar, wantSpan: source.Span{Start: 23, End: 24}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := mod.Find(tt.offset)
			if found == nil {
				t.Fatal("expected node")
			}
			if found.Location() != tt.wantSpan {
				t.Fatalf("span = %v, want %v", found.Location(), tt.wantSpan)
			}
			switch n := found.(type) {
			case *Statement:
				if n.Kind != tt.wantKind {
					t.Fatalf("statement kind = %v, want %v", n.Kind, tt.wantKind)
				}
			case *Expression:
				if n.Kind != tt.wantKind {
					t.Fatalf("expression kind = %v, want %v", n.Kind, tt.wantKind)
				}
			}
		})
	}
}

func TestFindOutside(t *testing.T) {
	mod := sampleModule()
	if found := mod.Find(100); found != nil {
		t.Fatalf("expected nil, got %v", found.Location())
	}
	var empty *Module
	if empty.Find(0) != nil {
		t.Fatal("nil module must not resolve")
	}
}

func TestDefinitionLocation(t *testing.T) {
	mod := sampleModule()
	lit := mod.Find(20)
	if _, ok := lit.DefinitionLocation(); ok {
		t.Fatal("literal must not have a definition")
	}
	callee := mod.Find(16)
	loc, ok := callee.DefinitionLocation()
	if !ok || loc.Module != "math" {
		t.Fatalf("unexpected definition %+v ok=%v", loc, ok)
	}
}
