package format

import (
	"context"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"lantern/internal/source"
)

// Options tunes Layout.
type Options struct {
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = 2
	}
	return o
}

// Layout re-indents lines by bracket depth, strips trailing whitespace,
// collapses blank-line runs and ends the file with exactly one newline.
// String literals and line comments are copied verbatim. Unbalanced brackets
// or an unterminated string are reported as *Error.
type Layout struct {
	Options Options
}

type opener struct {
	ch  byte
	off int
}

var closers = map[byte]byte{')': '(', ']': '[', '}': '{'}

func spanOffset(off int) uint32 {
	v, err := safecast.Conv[uint32](off)
	if err != nil {
		return ^uint32(0) - 1
	}
	return v
}

func (l Layout) Format(ctx context.Context, path, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	opt := l.Options.withDefaults()
	text = strings.ReplaceAll(text, "\r\n", "\n")
	w := newWriter(opt, len(text))

	var stack []opener
	inString := false
	stringStart := 0
	lineStart := 0

	fail := func(off int, format string, args ...any) (string, error) {
		start := spanOffset(off)
		return "", &Error{
			Path:    path,
			Src:     text,
			Span:    &source.Span{Start: start, End: start + 1},
			Message: fmt.Sprintf(format, args...),
		}
	}

	for lineStart <= len(text) {
		end := strings.IndexByte(text[lineStart:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += lineStart
		}
		raw := text[lineStart:end]

		startsInString := inString
		depth := len(stack)
		leadingClosers := 0
		sawCode := startsInString

	scan:
		for i := 0; i < len(raw); i++ {
			c := raw[i]
			if inString {
				switch c {
				case '\\':
					i++
				case '"':
					inString = false
				}
				continue
			}
			off := lineStart + i
			switch c {
			case ' ', '\t':
				continue
			case '"':
				inString = true
				stringStart = off
			case '/':
				if i+1 < len(raw) && raw[i+1] == '/' {
					break scan
				}
			case '(', '[', '{':
				stack = append(stack, opener{ch: c, off: off})
			case ')', ']', '}':
				if len(stack) == 0 || stack[len(stack)-1].ch != closers[c] {
					return fail(off, "unexpected `%c`", c)
				}
				stack = stack[:len(stack)-1]
				if !sawCode {
					leadingClosers++
					continue
				}
			}
			sawCode = true
		}

		switch {
		case startsInString:
			// continuation of a multi-line string
			w.verbatim(raw)
		case inString:
			w.line(max(depth-leadingClosers, 0), strings.TrimLeft(raw, " \t"))
		default:
			w.line(max(depth-leadingClosers, 0), strings.TrimSpace(raw))
		}

		if end == len(text) {
			break
		}
		lineStart = end + 1
	}

	if inString {
		return fail(stringStart, "unterminated string")
	}
	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return fail(open.off, "unclosed `%c`", open.ch)
	}
	return w.String(), nil
}
