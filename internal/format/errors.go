package format

import (
	"fmt"

	"lantern/internal/diag"
	"lantern/internal/source"
)

// Error is returned when the input cannot be formatted.
type Error struct {
	Path    string
	Src     string
	Span    *source.Span // nil when the formatter could not say where
	Message string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return "format: " + e.Message
	}
	return fmt.Sprintf("format %s: %s", e.Path, e.Message)
}

// Diagnostic renders the failure for the editor.
func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.Diagnostic{
		Title: "Formatting failed",
		Text:  e.Message,
		Level: diag.LevelError,
	}
	if e.Span != nil && e.Path != "" {
		d.Text = ""
		d.Location = &diag.Location{
			Path:  e.Path,
			Src:   e.Src,
			Label: diag.Label{Text: e.Message, Span: *e.Span},
		}
	}
	return d
}
