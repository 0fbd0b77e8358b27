package source

import (
	"fmt"
)

// Span is a byte range inside a single module's source text.
type Span struct {
	Start uint32 // inclusive byte offset
	End   uint32 // exclusive byte offset
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Contains reports whether offset falls inside [Start, End).
func (s Span) Contains(offset uint32) bool {
	return offset >= s.Start && offset < s.End
}

// Encloses reports whether other lies completely inside s.
func (s Span) Encloses(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}
