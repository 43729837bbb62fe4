package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem is the part of the filesystem the loader reads project files from.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	// Glob returns the absolute paths matching pattern.
	Glob(pattern string) ([]string, error)
}

// OSFS reads from the host filesystem.
type OSFS struct{}

// NewOSFS creates a new OSFS instance.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// Stat returns file info for the given path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- path is discovered by the loader
	return os.ReadFile(path)
}

// Glob returns matches for the given pattern.
func (OSFS) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// RootedFS serves an fs.FS (typically fstest.MapFS) as if it were mounted at Root.
// Paths outside Root do not exist.
type RootedFS struct {
	FS   fs.FS
	Root string
}

// NewRootedFS mounts fsys at root.
func NewRootedFS(root string, fsys fs.FS) *RootedFS {
	return &RootedFS{FS: fsys, Root: filepath.Clean(root)}
}

// Stat returns file info for the given path.
func (r *RootedFS) Stat(path string) (fs.FileInfo, error) {
	rel, ok := r.rel(path)
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return fs.Stat(r.FS, rel)
}

// ReadFile reads the entire file at path.
func (r *RootedFS) ReadFile(path string) ([]byte, error) {
	rel, ok := r.rel(path)
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return fs.ReadFile(r.FS, rel)
}

// Glob returns matches for the given pattern.
func (r *RootedFS) Glob(pattern string) ([]string, error) {
	rel, ok := r.rel(pattern)
	if !ok {
		return nil, nil
	}
	matches, err := fs.Glob(r.FS, rel)
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = filepath.Join(r.Root, filepath.FromSlash(m))
	}
	return matches, nil
}

// rel maps an absolute path below Root onto the slash-separated form fs.FS expects.
func (r *RootedFS) rel(path string) (string, bool) {
	path = filepath.Clean(path)
	if path == r.Root {
		return ".", true
	}
	prefix := r.Root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok {
		return "", false
	}
	return filepath.ToSlash(rest), true
}
