// Package feedback turns the outcome of a compile into the diagnostics a
// client must see, and remembers enough about earlier responses to tell the
// client which files to clear.
package feedback

import (
	"sort"

	"lantern/internal/diag"
	"lantern/internal/warning"
)

// Feedback is what one handler invocation reports, delivered exactly once.
type Feedback struct {
	// Diagnostics holds the compile error, if any, followed by every warning in
	// emission order.
	Diagnostics []diag.Diagnostic
	// Cleared lists files whose previously reported diagnostics are stale.
	// A cleared file may also receive new diagnostics in the same Feedback.
	Cleared []string
}

// Empty reports whether there is nothing to deliver.
func (f Feedback) Empty() bool {
	return len(f.Diagnostics) == 0 && len(f.Cleared) == 0
}

// ByPath groups located diagnostics by file and adds an empty entry for every
// cleared file, so that publishing each entry replaces what the client shows.
func (f Feedback) ByPath() map[string][]diag.Diagnostic {
	out := make(map[string][]diag.Diagnostic)
	for _, path := range f.Cleared {
		out[path] = nil
	}
	for _, d := range f.Diagnostics {
		if d.Location == nil {
			continue
		}
		out[d.Location.Path] = append(out[d.Location.Path], d)
	}
	return out
}

// Messages returns diagnostics that belong to no file.
func (f Feedback) Messages() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range f.Diagnostics {
		if d.Location == nil {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any diagnostic is an error.
func (f Feedback) HasErrors() bool {
	for _, d := range f.Diagnostics {
		if d.Level == diag.LevelError {
			return true
		}
	}
	return false
}

// Diagnostics is the stateless part of the bookkeeping: the optional compile
// error followed by one diagnostic per warning.
func Diagnostics(compileErr error, warnings []warning.Warning) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(warnings)+1)
	if compileErr != nil {
		out = append(out, diag.FromError(compileErr))
	}
	for _, w := range warnings {
		out = append(out, warning.ToDiagnostic(w))
	}
	return out
}

// Bookkeeper tracks which files currently show diagnostics on the client.
// The zero value is ready to use.
type Bookkeeper struct {
	withWarnings map[string]struct{}
	withErrors   map[string]struct{}
}

// Response builds the Feedback for one handler invocation. compiled lists the
// files of every module compiled since the previous Feedback; compileErr is
// the failure of the triggering operation, if any.
func (b *Bookkeeper) Response(compiled []string, warnings []warning.Warning, compileErr error) Feedback {
	if b.withWarnings == nil {
		b.withWarnings = make(map[string]struct{})
		b.withErrors = make(map[string]struct{})
	}
	cleared := make(map[string]struct{})

	// A recompiled file no longer shows its old warnings.
	for _, path := range compiled {
		if _, ok := b.withWarnings[path]; ok {
			delete(b.withWarnings, path)
			cleared[path] = struct{}{}
		}
	}
	// The previous error is replaced by whatever this response says.
	for path := range b.withErrors {
		delete(b.withErrors, path)
		cleared[path] = struct{}{}
	}

	diags := Diagnostics(compileErr, warnings)
	for _, d := range diags {
		path := d.Path()
		if path == "" {
			continue
		}
		if d.Level == diag.LevelError {
			b.withErrors[path] = struct{}{}
		} else {
			b.withWarnings[path] = struct{}{}
		}
	}

	fb := Feedback{Diagnostics: diags}
	if len(cleared) > 0 {
		fb.Cleared = make([]string, 0, len(cleared))
		for path := range cleared {
			fb.Cleared = append(fb.Cleared, path)
		}
		sort.Strings(fb.Cleared)
	}
	return fb
}
