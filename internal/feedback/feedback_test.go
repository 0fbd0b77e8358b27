package feedback

import (
	"errors"
	"reflect"
	"testing"

	"lantern/internal/diag"
	"lantern/internal/source"
	"lantern/internal/warning"
)

type locatedErr struct{ path string }

func (e locatedErr) Error() string { return "located" }

func (e locatedErr) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Title:    "Syntax error",
		Level:    diag.LevelError,
		Location: &diag.Location{Path: e.path, Label: diag.Label{Span: source.Span{Start: 0, End: 1}}},
	}
}

func unused(path string) warning.Warning {
	return warning.Warning{Path: path, Detail: warning.UnusedVariable{Name: "x"}}
}

func TestDiagnosticsOrder(t *testing.T) {
	got := Diagnostics(locatedErr{path: "/a"}, []warning.Warning{
		unused("/b"),
		{Path: "/c", Detail: warning.UnusedLiteral{}},
	})
	titles := make([]string, len(got))
	for i, d := range got {
		titles[i] = d.Title
	}
	want := []string{"Syntax error", "Unused variable", "Unused literal"}
	if !reflect.DeepEqual(titles, want) {
		t.Fatalf("titles = %v, want %v", titles, want)
	}
	if len(Diagnostics(nil, nil)) != 0 {
		t.Fatal("expected no diagnostics")
	}
}

func TestBookkeeperClearsRecompiledFiles(t *testing.T) {
	var b Bookkeeper

	first := b.Response([]string{"/a", "/b"}, []warning.Warning{unused("/a")}, nil)
	if len(first.Cleared) != 0 || len(first.Diagnostics) != 1 {
		t.Fatalf("first = %+v", first)
	}

	// /a recompiled without warnings: its old warning must be cleared.
	second := b.Response([]string{"/a"}, nil, nil)
	if !reflect.DeepEqual(second.Cleared, []string{"/a"}) || len(second.Diagnostics) != 0 {
		t.Fatalf("second = %+v", second)
	}
	if got := second.ByPath(); len(got) != 1 || got["/a"] != nil {
		t.Fatalf("ByPath() = %v", got)
	}

	// Nothing recompiled: nothing to clear, nothing repeated.
	third := b.Response(nil, nil, nil)
	if !third.Empty() {
		t.Fatalf("third = %+v", third)
	}
}

func TestBookkeeperErrorLifecycle(t *testing.T) {
	var b Bookkeeper

	failed := b.Response([]string{"/b"}, []warning.Warning{unused("/b")}, locatedErr{path: "/a"})
	if !failed.HasErrors() || len(failed.Diagnostics) != 2 {
		t.Fatalf("failed = %+v", failed)
	}
	byPath := failed.ByPath()
	if len(byPath["/a"]) != 1 || len(byPath["/b"]) != 1 {
		t.Fatalf("ByPath() = %v", byPath)
	}

	fixed := b.Response([]string{"/a", "/b"}, nil, nil)
	if !reflect.DeepEqual(fixed.Cleared, []string{"/a", "/b"}) {
		t.Fatalf("Cleared = %v", fixed.Cleared)
	}
	if fixed.HasErrors() {
		t.Fatal("fixed response still has errors")
	}
}

func TestMessagesAreLocationLess(t *testing.T) {
	var b Bookkeeper
	fb := b.Response(nil, []warning.Warning{unused("/a")}, errors.New("compiler not found"))
	msgs := fb.Messages()
	if len(msgs) != 1 || msgs[0].Text != "compiler not found" {
		t.Fatalf("Messages() = %+v", msgs)
	}
	if _, ok := fb.ByPath()[""]; ok {
		t.Fatal("location-less diagnostic grouped under empty path")
	}
}
