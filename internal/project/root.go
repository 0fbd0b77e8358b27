package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ManifestName is the file that marks a project root.
const ManifestName = "lantern.toml"

// FindManifest returns the nearest lantern.toml at or above startDir. ok is
// false when no ancestor holds one.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve %q: %w", startDir, err)
	}
	for prev := ""; dir != prev; prev, dir = dir, filepath.Dir(dir) {
		candidate := filepath.Join(dir, ManifestName)
		info, statErr := os.Stat(candidate)
		switch {
		case statErr == nil && !info.IsDir():
			return candidate, true, nil
		case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat %q: %w", candidate, statErr)
		}
	}
	return "", false, nil
}

// IsManifest reports whether path names the manifest of the project at root.
func IsManifest(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	return CanonicalPath(path) == CanonicalPath(filepath.Join(root, ManifestName))
}
