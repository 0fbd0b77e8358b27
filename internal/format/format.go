package format

import (
	"context"

	"lantern/internal/project"
)

// Formatter produces the formatted form of text. path is used only for
// error reporting and by external tools that care about file names.
type Formatter interface {
	Format(ctx context.Context, path, text string) (string, error)
}

// ForConfig returns the formatter configured by the manifest, falling back to
// Layout with default options.
func ForConfig(cfg *project.Config) Formatter {
	if cfg != nil && len(cfg.Formatter.Command) > 0 {
		return &Command{Argv: cfg.Formatter.Command}
	}
	return Layout{}
}
