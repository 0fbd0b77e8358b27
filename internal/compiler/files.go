package compiler

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"lantern/internal/project"
)

// collectFiles reads every project module through files: everything on disk
// under the source and test directories plus files that only exist in memory.
func collectFiles(cfg *project.Config, files Files) ([]wireFile, map[string]string, error) {
	layout := cfg.Layout()
	paths := make(map[string]struct{})

	for _, dir := range layout.SourceDirs() {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, layout.Extension) {
				paths[project.CanonicalPath(path)] = struct{}{}
			}
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, err
		}
	}
	for _, path := range files.Paths() {
		if _, _, ok := layout.ModuleName(path); ok {
			paths[path] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(paths))
	for path := range paths {
		sorted = append(sorted, path)
	}
	sort.Strings(sorted)

	out := make([]wireFile, 0, len(sorted))
	texts := make(map[string]string, len(sorted))
	for _, path := range sorted {
		name, origin, ok := layout.ModuleName(path)
		if !ok {
			continue
		}
		text, err := files.Read(path)
		if err != nil {
			return nil, nil, err
		}
		texts[path] = text
		out = append(out, wireFile{
			Path:   path,
			Module: name,
			Origin: uint8(origin),
			Text:   text,
		})
	}
	return out, texts, nil
}

// sourceFor returns the text the compiler was given for path, reading through
// files for paths that were not part of the request.
func sourceFor(path string, texts map[string]string, files Files) (string, bool) {
	if text, ok := texts[project.CanonicalPath(path)]; ok {
		return text, true
	}
	if path == "" {
		return "", false
	}
	text, err := files.Read(path)
	if err != nil {
		return "", false
	}
	return text, true
}

