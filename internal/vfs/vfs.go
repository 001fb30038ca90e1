// Package vfs resolves logical asset paths against layered file sources.
//
// Logical paths are case-insensitive and use forward slashes; "Models\Rock.SCENE.MBIN" and
// "MODELS/ROCK.SCENE.MBIN" name the same file.
package vfs

import (
	"errors"
	"io"

	"github.com/Faultbox/nmsimport/pkg/encoding"
)

// ErrNotExist is returned when no source holds the requested path.
var ErrNotExist = errors.New("file not found")

// FileSystem is the read-only view the importer consumes.
type FileSystem interface {
	// Open returns a seekable stream over the whole file.
	Open(path string) (io.ReadSeeker, error)
	// Exists reports whether any source holds path.
	Exists(path string) bool
}

// Source is one layer of files, such as an unpacked directory.
type Source interface {
	Name() string
	Contains(path string) bool
	Read(path string) ([]byte, error)
	List() []string
	Close() error
}

// Clean returns the canonical form of a logical path.
func Clean(path string) string {
	return encoding.NormalizePath(path)
}
