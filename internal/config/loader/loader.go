// Package loader provides byte-source access for configuration parsing.
//
// File access sits behind the FileSystem interface so tests and
// embedders can supply in-memory sources; the parser itself never
// touches the file system.
package loader

import (
	"fmt"
	"io/fs"
	"os"
)

// FileSystem is an abstraction for file system operations.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// Source reads raw configuration bytes from one path.
type Source struct {
	fs   FileSystem
	path string
}

// NewSource creates a source for the given path on the OS file system.
func NewSource(path string) *Source {
	return &Source{fs: DefaultFS(), path: path}
}

// NewSourceWithFS creates a source backed by a custom file system.
func NewSourceWithFS(fsys FileSystem, path string) *Source {
	return &Source{fs: fsys, path: path}
}

// Path returns the source path.
func (s *Source) Path() string {
	return s.path
}

// Read returns the full contents of the source.
func (s *Source) Read() ([]byte, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", s.path, err)
	}
	return data, nil
}

// Stat returns file info for the source.
func (s *Source) Stat() (fs.FileInfo, error) {
	return s.fs.Stat(s.path)
}
