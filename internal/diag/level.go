package diag

// Level defines the importance of a diagnostic.
type Level uint8

const (
	// LevelError is for problems that stop compilation.
	LevelError Level = iota
	// LevelWarning is for problems that do not.
	LevelWarning
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	}
	return "unknown"
}
