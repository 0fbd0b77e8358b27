// Package vfs provides the file view the compiler reads from: unsaved editor
// buffers layered over the disk.
package vfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"lantern/internal/diag"
	"lantern/internal/project"
)

// Reader reads the text of a file.
type Reader interface {
	Read(path string) (string, error)
}

// ReadError is returned when a path can be read neither from the overlay nor
// from disk.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Diagnostic renders the failure for the editor.
func (e *ReadError) Diagnostic() diag.Diagnostic {
	text := fmt.Sprintf("An error occurred while trying to read this file:\n\n    %s\n\nThe error message from the file system was:\n\n    %v", e.Path, e.Err)
	return diag.Diagnostic{
		Title: "File IO failure",
		Text:  text,
		Level: diag.LevelError,
	}
}

// NotExist reports whether the failure was a missing file.
func (e *ReadError) NotExist() bool {
	return errors.Is(e.Err, fs.ErrNotExist)
}

// Disk reads straight from the file system.
type Disk struct{}

func (Disk) Read(path string) (string, error) {
	// #nosec G304 -- path comes from the editor or the project layout
	content, err := os.ReadFile(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	return string(content), nil
}

// Overlay keeps in-memory text for files being edited. While an entry exists
// for a path every read of that path returns it; other paths fall through to
// the underlying reader. Paths are canonicalised before use.
type Overlay struct {
	disk  Reader
	files map[string]string
}

// NewOverlay returns an empty overlay over disk. A nil disk reads the real
// file system.
func NewOverlay(disk Reader) *Overlay {
	if disk == nil {
		disk = Disk{}
	}
	return &Overlay{
		disk:  disk,
		files: make(map[string]string),
	}
}

// Write inserts or replaces the overlay entry for path. It never touches disk.
func (o *Overlay) Write(path, text string) {
	o.files[project.CanonicalPath(path)] = text
}

// Delete drops the overlay entry for path; a missing entry is not an error.
func (o *Overlay) Delete(path string) {
	delete(o.files, project.CanonicalPath(path))
}

// Read returns the overlay text for path if present, else the disk content.
func (o *Overlay) Read(path string) (string, error) {
	key := project.CanonicalPath(path)
	if text, ok := o.files[key]; ok {
		return text, nil
	}
	return o.disk.Read(key)
}

// Has reports whether path currently has an overlay entry.
func (o *Overlay) Has(path string) bool {
	_, ok := o.files[project.CanonicalPath(path)]
	return ok
}

// Paths returns every path with an overlay entry, sorted.
func (o *Overlay) Paths() []string {
	out := make([]string, 0, len(o.files))
	for path := range o.files {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}
