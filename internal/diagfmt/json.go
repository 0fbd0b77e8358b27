package diagfmt

import (
	"encoding/json"
	"io"

	"lantern/internal/diag"
	"lantern/internal/source"
)

// LocationJSON is a file location in JSON output.
type LocationJSON struct {
	File      string `json:"file"`
	Label     string `json:"label,omitempty"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// DiagnosticJSON is one diagnostic in JSON output.
type DiagnosticJSON struct {
	Severity string         `json:"severity"`
	Title    string         `json:"title"`
	Text     string         `json:"text,omitempty"`
	Hint     string         `json:"hint,omitempty"`
	Location *LocationJSON  `json:"location,omitempty"`
	Extra    []LocationJSON `json:"extra,omitempty"`
}

// DiagnosticsOutput is the root of JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(path string, li *source.LineIndex, label diag.Label, opts JSONOpts) LocationJSON {
	loc := LocationJSON{
		File:      formatPath(path, opts.PathMode, opts.BaseDir),
		Label:     label.Text,
		StartByte: label.Span.Start,
		EndByte:   label.Span.End,
	}
	if opts.IncludePositions {
		start, end := li.LineCol(label.Span.Start), li.LineCol(label.Span.End)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

// BuildDiagnosticsOutput builds the JSON structure without serialising it.
func BuildDiagnosticsOutput(diags []diag.Diagnostic, opts JSONOpts) DiagnosticsOutput {
	n := len(diags)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := make([]DiagnosticJSON, 0, n)
	for _, d := range diags[:n] {
		dj := DiagnosticJSON{
			Severity: d.Level.String(),
			Title:    d.Title,
			Text:     d.Text,
			Hint:     d.Hint,
		}
		if d.Location != nil {
			li := source.NewLineIndex(d.Location.Src)
			primary := makeLocation(d.Location.Path, li, d.Location.Label, opts)
			dj.Location = &primary
			for _, extra := range d.Location.ExtraLabels {
				dj.Extra = append(dj.Extra, makeLocation(d.Location.Path, li, extra, opts))
			}
		}
		out = append(out, dj)
	}
	return DiagnosticsOutput{Diagnostics: out, Count: len(out)}
}

// JSON writes diags as an indented JSON document.
func JSON(w io.Writer, diags []diag.Diagnostic, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(diags, opts))
}
