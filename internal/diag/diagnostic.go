package diag

import (
	"lantern/internal/source"
)

// Label attaches a message to a span.
type Label struct {
	Text string // optional
	Span source.Span
}

// Location ties a diagnostic to a file. Src is the full text the spans refer
// to, so a renderer never needs to read the file again.
type Location struct {
	Path        string
	Src         string
	Label       Label
	ExtraLabels []Label
}

// Diagnostic is a display-ready problem report.
type Diagnostic struct {
	Title    string
	Text     string
	Hint     string // optional
	Level    Level
	Location *Location // nil for project-wide problems
}

// Path returns the file the diagnostic points at, or "".
func (d Diagnostic) Path() string {
	if d.Location == nil {
		return ""
	}
	return d.Location.Path
}

// Message joins title, body and hint into the plain text used where only a
// single string can be shown.
func (d Diagnostic) Message() string {
	out := d.Title
	if d.Location != nil && d.Location.Label.Text != "" {
		out += "\n" + d.Location.Label.Text
	}
	if d.Text != "" {
		out += "\n\n" + d.Text
	}
	if d.Hint != "" {
		out += "\nHint: " + d.Hint
	}
	return out
}
