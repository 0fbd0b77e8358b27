// Package warning models the non-fatal problems a compile can emit and maps
// each of them to exactly one diagnostic.
package warning

import (
	"lantern/internal/source"
	"lantern/internal/types"
)

// Warning is one emitted warning together with the module it came from.
// Source is the full text the compiler saw, so spans stay valid even if the
// file has changed since.
type Warning struct {
	Path   string
	Source string
	Detail Detail
}

// Span is the primary span of the warning.
func (w Warning) Span() source.Span {
	if w.Detail == nil {
		return source.Span{}
	}
	return w.Detail.span()
}

// Detail is the closed set of warning kinds. Only types in this package
// implement it.
type Detail interface {
	span() source.Span
}

// TodoKind distinguishes the incomplete-code markers.
type TodoKind uint8

const (
	TodoKeyword TodoKind = iota
	TodoEmptyFunction
	TodoIncompleteUse
)

type (
	// Todo marks code that will crash when run.
	Todo struct {
		Kind TodoKind
		At   source.Span
		Type *types.Type
	}
	// ImplicitlyDiscardedResult is a Result value nobody looks at.
	ImplicitlyDiscardedResult struct {
		At source.Span
	}
	UnusedLiteral struct {
		At source.Span
	}
	// NoFieldsRecordUpdate is `Record(..r)` with no fields given.
	NoFieldsRecordUpdate struct {
		At source.Span
	}
	// AllFieldsRecordUpdate updates every field of the record.
	AllFieldsRecordUpdate struct {
		At source.Span
	}
	UnusedType struct {
		At       source.Span
		Name     string
		Imported bool
	}
	UnusedConstructor struct {
		At       source.Span
		Name     string
		Imported bool
	}
	UnusedImportedModule struct {
		At   source.Span
		Name string
	}
	UnusedImportedValue struct {
		At   source.Span
		Name string
	}
	UnusedPrivateConstant struct {
		At   source.Span
		Name string
	}
	UnusedPrivateFunction struct {
		At   source.Span
		Name string
	}
	UnusedVariable struct {
		At   source.Span
		Name string
	}
)

func (d Todo) span() source.Span                      { return d.At }
func (d ImplicitlyDiscardedResult) span() source.Span { return d.At }
func (d UnusedLiteral) span() source.Span             { return d.At }
func (d NoFieldsRecordUpdate) span() source.Span      { return d.At }
func (d AllFieldsRecordUpdate) span() source.Span     { return d.At }
func (d UnusedType) span() source.Span                { return d.At }
func (d UnusedConstructor) span() source.Span         { return d.At }
func (d UnusedImportedModule) span() source.Span      { return d.At }
func (d UnusedImportedValue) span() source.Span       { return d.At }
func (d UnusedPrivateConstant) span() source.Span     { return d.At }
func (d UnusedPrivateFunction) span() source.Span     { return d.At }
func (d UnusedVariable) span() source.Span            { return d.At }
