package source

import (
	"sort"
	"unicode/utf8"
)

// LineIndex maps byte offsets of a text to editor positions and back.
// Lines are split on '\n'; columns are counted in code points.
type LineIndex struct {
	text       string
	lineStarts []uint32
}

// NewLineIndex scans text once and records where every line begins.
func NewLineIndex(text string) *LineIndex {
	return &LineIndex{
		text:       text,
		lineStarts: buildLineStarts(text),
	}
}

// Text returns the indexed source.
func (li *LineIndex) Text() string {
	return li.text
}

// Len returns the size of the indexed text in bytes.
func (li *LineIndex) Len() uint32 {
	return Uint32(len(li.text))
}

// LineCount returns the number of lines, counting a trailing empty line after
// a final '\n'.
func (li *LineIndex) LineCount() int {
	return len(li.lineStarts)
}

// lineBounds returns the byte range of line (without its '\n').
func (li *LineIndex) lineBounds(line int) (start, end uint32) {
	start = li.lineStarts[line]
	if line+1 < len(li.lineStarts) {
		end = li.lineStarts[line+1] - 1
	} else {
		end = li.Len()
	}
	return start, end
}

// Offset converts an editor position to a byte offset. Positions past the end
// of a line clamp to the line end; lines past the end clamp to the text end.
func (li *LineIndex) Offset(pos Position) uint32 {
	if int(pos.Line) >= len(li.lineStarts) {
		return li.Len()
	}
	start, end := li.lineBounds(int(pos.Line))
	off := start
	for col := uint32(0); col < pos.Character && off < end; col++ {
		_, size := utf8.DecodeRuneInString(li.text[off:end])
		off += Uint32(size)
	}
	return off
}

// Position converts a byte offset to an editor position. Offsets past the end
// of the text clamp to the end.
func (li *LineIndex) Position(offset uint32) Position {
	if offset > li.Len() {
		offset = li.Len()
	}
	line := sort.Search(len(li.lineStarts), func(i int) bool { return li.lineStarts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	start := li.lineStarts[line]
	return Position{
		Line:      Uint32(line),
		Character: Uint32(utf8.RuneCountInString(li.text[start:offset])),
	}
}

// Range converts a span to an editor range.
func (li *LineIndex) Range(span Span) Range {
	return Range{
		Start: li.Position(span.Start),
		End:   li.Position(span.End),
	}
}

// LineCol returns the 1-based line/column of offset for human-facing output.
func (li *LineIndex) LineCol(offset uint32) LineCol {
	pos := li.Position(offset)
	return LineCol{Line: pos.Line + 1, Col: pos.Character + 1}
}

// Line returns the text of the 0-based line without its terminator, or "" if
// the line does not exist.
func (li *LineIndex) Line(line int) string {
	if line < 0 || line >= len(li.lineStarts) {
		return ""
	}
	start, end := li.lineBounds(line)
	return li.text[start:end]
}
