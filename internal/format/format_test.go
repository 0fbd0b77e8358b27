package format

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"lantern/internal/project"
)

func TestLayoutFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "reindent blocks",
			in:   "pub fn main() {\nlet x = [\n1,\n  2,\n    ]\n      x\n}",
			want: "pub fn main() {\n  let x = [\n    1,\n    2,\n  ]\n  x\n}\n",
		},
		{
			name: "closer continues line",
			in:   "fn f() {\n  case x {\n1 -> a\n  }   \n}\n",
			want: "fn f() {\n  case x {\n    1 -> a\n  }\n}\n",
		},
		{
			name: "blank lines collapse",
			in:   "\n\nimport a\n\n\n\nimport b\n\n\n",
			want: "import a\n\nimport b\n",
		},
		{
			name: "crlf",
			in:   "const a = 1\r\nconst b = 2\r\n",
			want: "const a = 1\nconst b = 2\n",
		},
		{
			name: "brackets in strings and comments are ignored",
			in:   "fn f() {\n\"{[(\" // )\n}\n",
			want: "fn f() {\n  \"{[(\" // )\n}\n",
		},
		{
			name: "multi-line string kept verbatim",
			in:   "fn f() {\n  \"first  \n     second\"\n}\n",
			want: "fn f() {\n  \"first  \n     second\"\n}\n",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Layout{}.Format(context.Background(), "a.gleam", tt.in)
			if err != nil {
				t.Fatalf("Format: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLayoutTabs(t *testing.T) {
	got, err := Layout{Options: Options{UseTabs: true}}.Format(context.Background(), "", "{\nx\n}")
	if err != nil {
		t.Fatal(err)
	}
	if got != "{\n\tx\n}\n" {
		t.Fatalf("got %q", got)
	}
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		message string
		start   uint32
	}{
		{name: "stray closer", in: "fn f() }", message: "unexpected `}`", start: 7},
		{name: "mismatched", in: "f(]", message: "unexpected `]`", start: 2},
		{name: "unclosed", in: "fn f() {\n", message: "unclosed `{`", start: 7},
		{name: "unterminated string", in: "let s = \"abc", message: "unterminated string", start: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Layout{}.Format(context.Background(), "/p/src/a.gleam", tt.in)
			var ferr *Error
			if !errors.As(err, &ferr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if ferr.Message != tt.message || ferr.Span == nil || ferr.Span.Start != tt.start {
				t.Fatalf("got %q at %v", ferr.Message, ferr.Span)
			}
			d := ferr.Diagnostic()
			if d.Location == nil || d.Location.Path != "/p/src/a.gleam" || d.Location.Src != tt.in {
				t.Fatalf("unexpected diagnostic %+v", d)
			}
		})
	}
}

func TestCommandFormatter(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	cmd := &Command{Argv: []string{"/bin/sh", "-c", "tr a-z A-Z"}}
	got, err := cmd.Format(context.Background(), "", "hello\n")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if got != "HELLO\n" {
		t.Fatalf("got %q", got)
	}

	failing := &Command{Argv: []string{"/bin/sh", "-c", "cat >/dev/null; echo 'syntax error on line 1' >&2; exit 1"}}
	_, err = failing.Format(context.Background(), "x.gleam", "bad")
	var ferr *Error
	if !errors.As(err, &ferr) || !strings.Contains(ferr.Message, "syntax error on line 1") {
		t.Fatalf("expected formatting error, got %v", err)
	}
	if d := ferr.Diagnostic(); d.Location != nil || d.Title != "Formatting failed" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}

func TestForConfig(t *testing.T) {
	if _, ok := ForConfig(nil).(Layout); !ok {
		t.Fatal("nil config should use Layout")
	}
	cfg := &project.Config{Formatter: project.CommandConfig{Command: []string{"fmt"}}}
	if c, ok := ForConfig(cfg).(*Command); !ok || c.Argv[0] != "fmt" {
		t.Fatal("configured command not used")
	}
}
