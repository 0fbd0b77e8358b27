package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lantern/internal/diag"
	"lantern/internal/source"
)

type palette struct {
	err, warn, gutter, label, hint *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		gutter: color.New(color.FgBlue),
		label:  color.New(color.Bold),
		hint:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.gutter, p.label, p.hint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) level(l diag.Level) *color.Color {
	if l == diag.LevelError {
		return p.err
	}
	return p.warn
}

// Pretty writes diags in a human-readable form:
//
//	warning: Unused variable
//	  ┌─ src/app.gleam:3:7
//	  │
//	3 │   let x = 1
//	  │       ^ This variable is never used.
//
//	Hint: You can ignore it with an underscore: `_x`.
//
// Diagnostics are separated by a blank line and printed in the given order.
func Pretty(w io.Writer, diags []diag.Diagnostic, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := prettyOne(w, d, opts, pal); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, opts PrettyOpts, pal palette) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", pal.level(d.Level).Sprintf("%s:", d.Level), pal.label.Sprint(d.Title))

	if loc := d.Location; loc != nil {
		writeExcerpt(&b, loc, d.Level, opts, pal)
	}
	if d.Text != "" {
		b.WriteString("\n")
		b.WriteString(d.Text)
		if !strings.HasSuffix(d.Text, "\n") {
			b.WriteString("\n")
		}
	}
	if d.Hint != "" {
		fmt.Fprintf(&b, "%s %s\n", pal.hint.Sprint("Hint:"), d.Hint)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeExcerpt(b *strings.Builder, loc *diag.Location, level diag.Level, opts PrettyOpts, pal palette) {
	li := source.NewLineIndex(loc.Src)
	span := loc.Label.Span
	start := li.Position(span.Start)
	lc := li.LineCol(span.Start)

	lastLine := int(start.Line)
	firstLine := max(lastLine-int(opts.Context), 0)
	width := len(strconv.Itoa(lastLine + 1))
	pad := strings.Repeat(" ", width)
	bar := pal.gutter.Sprint("│")

	fmt.Fprintf(b, "%s %s %s:%d:%d\n", pad, pal.gutter.Sprint("┌─"), formatPath(loc.Path, opts.PathMode, opts.BaseDir), lc.Line, lc.Col)
	fmt.Fprintf(b, "%s %s\n", pad, bar)

	for n := firstLine; n <= lastLine; n++ {
		line := strings.TrimRight(li.Line(n), "\r")
		num := pal.gutter.Sprintf("%*d", width, n+1)
		fmt.Fprintf(b, "%s %s %s\n", num, bar, line)
	}

	line := li.Line(lastLine)
	lineStart := li.Offset(source.Position{Line: start.Line})
	col := int(span.Start - lineStart)
	col = min(col, len(line))
	end := int(span.End - lineStart)
	end = max(min(end, len(line)), col)

	indent := runewidth.StringWidth(expandTabs(line[:col]))
	carets := max(runewidth.StringWidth(expandTabs(line[col:end])), 1)
	marker := pal.level(level).Sprint(strings.Repeat("^", carets))
	labelText := ""
	if loc.Label.Text != "" {
		labelText = " " + pal.level(level).Sprint(loc.Label.Text)
	}
	fmt.Fprintf(b, "%s %s %s%s%s\n", pad, bar, strings.Repeat(" ", indent), marker, labelText)

	for _, extra := range loc.ExtraLabels {
		elc := li.LineCol(extra.Span.Start)
		fmt.Fprintf(b, "%s %s %d:%d: %s\n", pad, pal.gutter.Sprint("="), elc.Line, elc.Col, extra.Text)
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
