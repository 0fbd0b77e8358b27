package diag

import "errors"

// Reportable is implemented by errors that know how to present themselves.
type Reportable interface {
	error
	Diagnostic() Diagnostic
}

// FromError converts err to a diagnostic. Errors that are not Reportable become
// a location-less error diagnostic carrying err's message.
func FromError(err error) Diagnostic {
	var rep Reportable
	if errors.As(err, &rep) {
		return rep.Diagnostic()
	}
	return Diagnostic{
		Title: "Internal error",
		Text:  err.Error(),
		Level: LevelError,
	}
}
