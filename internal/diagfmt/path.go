package diagfmt

import (
	"path/filepath"
	"strings"
)

func formatPath(path string, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeRelative, PathModeAuto:
		if baseDir == "" {
			return path
		}
		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return path
		}
		if mode == PathModeAuto && strings.HasPrefix(rel, "..") {
			return path
		}
		return rel
	}
	return path
}
