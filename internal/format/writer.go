package format

// writer accumulates formatted output and emits canonical indentation.
type writer struct {
	opt        Options
	buf        []byte
	blankLines int
	wroteAny   bool
}

func newWriter(opt Options, sizeHint int) *writer {
	return &writer{
		opt: opt,
		buf: make([]byte, 0, sizeHint),
	}
}

// line writes one trimmed line at the given depth. Runs of blank lines
// collapse to one; leading blank lines are dropped.
func (w *writer) line(depth int, content string) {
	if content == "" {
		if w.wroteAny {
			w.blankLines++
		}
		return
	}
	if w.blankLines > 0 {
		w.buf = append(w.buf, '\n')
		w.blankLines = 0
	}
	w.writeIndent(depth)
	w.buf = append(w.buf, content...)
	w.buf = append(w.buf, '\n')
	w.wroteAny = true
}

// verbatim writes raw unchanged, e.g. inside a multi-line string.
func (w *writer) verbatim(raw string) {
	w.buf = append(w.buf, raw...)
	w.buf = append(w.buf, '\n')
}

func (w *writer) writeIndent(depth int) {
	if w.opt.UseTabs {
		for range depth {
			w.buf = append(w.buf, '\t')
		}
		return
	}
	for range depth * w.opt.IndentWidth {
		w.buf = append(w.buf, ' ')
	}
}

func (w *writer) String() string {
	return string(w.buf)
}
