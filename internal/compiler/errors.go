package compiler

import (
	"lantern/internal/diag"
)

// Error is a compile failure reported by the compiler. It carries its own
// diagnostic.
type Error struct {
	Diag diag.Diagnostic
}

func (e *Error) Error() string {
	if path := e.Diag.Path(); path != "" {
		return path + ": " + e.Diag.Title
	}
	return e.Diag.Title
}

// Diagnostic returns the compiler's description of the failure.
func (e *Error) Diagnostic() diag.Diagnostic {
	return e.Diag
}

func failure(title, text string) *Error {
	return &Error{Diag: diag.Diagnostic{
		Title: title,
		Text:  text,
		Level: diag.LevelError,
	}}
}
