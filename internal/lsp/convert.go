package lsp

import (
	"unicode/utf16"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"lantern/internal/diag"
	"lantern/internal/project"
	"lantern/internal/source"
)

// columns converts between the code-point columns of the core and the UTF-16
// columns spoken on the wire, using the lines of one document.
type columns struct {
	li *source.LineIndex
}

func columnsOf(text string) columns {
	return columns{li: source.NewLineIndex(text)}
}

func runeUnits(r rune) uint32 {
	if n := utf16.RuneLen(r); n > 0 {
		return uint32(n)
	}
	return 1
}

func (c columns) toPosition(pos source.Position) protocol.Position {
	units, col := uint32(0), uint32(0)
	for _, r := range c.li.Line(int(pos.Line)) {
		if col == pos.Character {
			break
		}
		units += runeUnits(r)
		col++
	}
	// past the line end: keep the overshoot, the client clamps it
	units += pos.Character - col
	return protocol.Position{Line: pos.Line, Character: units}
}

func (c columns) fromPosition(pos protocol.Position) source.Position {
	units, col := uint32(0), uint32(0)
	for _, r := range c.li.Line(int(pos.Line)) {
		n := runeUnits(r)
		if units+n > pos.Character {
			return source.Position{Line: pos.Line, Character: col}
		}
		units += n
		col++
	}
	return source.Position{Line: pos.Line, Character: col + pos.Character - units}
}

func (c columns) toRange(r source.Range) protocol.Range {
	return protocol.Range{Start: c.toPosition(r.Start), End: c.toPosition(r.End)}
}

// applyChanges replays content changes on text and returns the document
// after each of them. Ranged edits are resolved against the text produced by
// the previous change.
func applyChanges(text string, changes []any) []string {
	texts := make([]string, 0, len(changes))
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text = c.Text
				break
			}
			cols := columnsOf(text)
			start := cols.li.Offset(cols.fromPosition(c.Range.Start))
			end := cols.li.Offset(cols.fromPosition(c.Range.End))
			if end < start {
				start, end = end, start
			}
			text = text[:start] + c.Text + text[end:]
		default:
			continue
		}
		texts = append(texts, text)
	}
	return texts
}

func toDiagnostic(d diag.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	if d.Level == diag.LevelWarning {
		severity = protocol.DiagnosticSeverityWarning
	}
	src := serverName
	out := protocol.Diagnostic{
		Severity: &severity,
		Source:   &src,
		Message:  d.Message(),
	}
	if d.Location == nil {
		return out
	}
	cols := columnsOf(d.Location.Src)
	out.Range = cols.toRange(cols.li.Range(d.Location.Label.Span))
	uri := project.PathToURI(d.Location.Path)
	for _, extra := range d.Location.ExtraLabels {
		out.RelatedInformation = append(out.RelatedInformation, protocol.DiagnosticRelatedInformation{
			Location: protocol.Location{URI: uri, Range: cols.toRange(cols.li.Range(extra.Span))},
			Message:  extra.Text,
		})
	}
	return out
}

func messageType(level diag.Level) protocol.MessageType {
	if level == diag.LevelWarning {
		return protocol.MessageTypeWarning
	}
	return protocol.MessageTypeError
}
