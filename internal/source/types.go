package source

// Position is an editor coordinate. Both fields are 0-based; Character counts
// code points within the line, not bytes.
type Position struct {
	Line      uint32
	Character uint32
}

// Range is a pair of editor positions, End exclusive.
type Range struct {
	Start Position
	End   Position
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
