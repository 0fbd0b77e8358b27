package project

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"lantern/internal/module"
)

// Layout maps file system paths of a project onto module names.
type Layout struct {
	Root      string
	SrcDir    string
	TestDir   string
	Extension string // with leading dot
}

// ModuleName returns the module name and origin for a project source file,
// e.g. <root>/src/app/router.gleam -> "app/router". ok is false for files
// outside the src and test directories or with another extension.
//
// Names are NFC-normalised so that paths reported by decomposing file systems
// match the names editors send.
func (l Layout) ModuleName(path string) (name string, origin module.Origin, ok bool) {
	if path == "" || l.Extension == "" || !strings.HasSuffix(path, l.Extension) {
		return "", 0, false
	}
	clean := filepath.Clean(path)
	var base string
	switch {
	case pathWithin(l.SrcDir, clean):
		base, origin = l.SrcDir, module.OriginSrc
	case pathWithin(l.TestDir, clean):
		base, origin = l.TestDir, module.OriginTest
	default:
		return "", 0, false
	}
	rel, err := filepath.Rel(base, clean)
	if err != nil {
		return "", 0, false
	}
	rel = strings.TrimSuffix(filepath.ToSlash(rel), l.Extension)
	if !validModuleName(rel) {
		return "", 0, false
	}
	return norm.NFC.String(rel), origin, true
}

// ModuleNameForURI is ModuleName for an editor URI.
func (l Layout) ModuleNameForURI(uri string) (string, module.Origin, bool) {
	path := URIToPath(uri)
	if path == "" {
		return "", 0, false
	}
	return l.ModuleName(path)
}

// SourceDirs returns the directories that hold project modules.
func (l Layout) SourceDirs() []string {
	return []string{l.SrcDir, l.TestDir}
}

func validModuleName(name string) bool {
	if name == "" {
		return false
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
